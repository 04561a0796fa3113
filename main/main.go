// Heap profiling harness for the decoder. Writes mem.prof after decoding
// a batch of records and keeps pprof reachable on localhost:6060 while it runs.
package main

import (
	"bytes"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rawbytedev/rawtype"
)

type sample struct {
	ID     uint64
	Flags  uint32
	Count  uint16
	Kind   uint8
	Valid  bool
	Scale  float64
	Digest [32]byte
	Ranges [4]struct {
		Lo, Hi int32
	}
}

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	img, err := rawtype.Encode(sample{ID: 7, Flags: 0xF0, Count: 3, Valid: true, Scale: 0.5})
	if err != nil {
		log.Fatal(err)
	}
	stream := bytes.Repeat(img, 10000)

	r := bytes.NewReader(stream)
	for i := 0; i < 10000; i++ {
		if _, err := rawtype.Decode[sample](img); err != nil {
			log.Fatal(err)
		}
		if _, err := rawtype.Read[sample](r); err != nil {
			log.Fatal(err)
		}
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal(err)
	}
}
