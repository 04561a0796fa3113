package rawtype

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

// StreamMode controls how many bytes a reader is asked for per decode.
type StreamMode int

const (
	// StreamReadFull keeps reading until the layout is filled or the
	// reader reports EOF.
	StreamReadFull StreamMode = iota
	// StreamSingleRead issues exactly one Read and accepts whatever it
	// returns. Readers that return short reads before EOF will then fail
	// with a truncated_input error.
	StreamSingleRead
)

func (m StreamMode) String() string {
	switch m {
	case StreamReadFull:
		return "read-full"
	case StreamSingleRead:
		return "single-read"
	default:
		return fmt.Sprintf("StreamMode(%d)", int(m))
	}
}

// NoReader is the null stream: a reader with nothing behind it. Read and
// DecodeReader reject it with invalid_input, the same as a nil reader.
var NoReader io.Reader = noReader{}

type noReader struct{}

func (noReader) Read([]byte) (int, error) { return 0, io.EOF }

type Options struct {
	StreamMode StreamMode
	Logger     *zap.Logger // nil uses the package logger
}

// Decoder turns byte windows into fixed-layout values. Its only state is
// a cache of compiled layouts, so one Decoder may be shared by any number
// of goroutines.
type Decoder struct {
	Opts Options
	plan map[reflect.Type]*LayoutPlan
	mu   sync.RWMutex
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{
		Opts: opts,
		plan: make(map[reflect.Type]*LayoutPlan),
	}
}

func (d *Decoder) logger() *zap.Logger {
	if d.Opts.Logger != nil {
		return d.Opts.Logger
	}
	return Logger()
}

// Plan returns the compiled layout for t. Check Err before using it.
func (d *Decoder) Plan(t reflect.Type) *LayoutPlan {
	return d.getPlan(t)
}

// Decode fills the value out points to from the first bytes of data.
// out must be a non-nil pointer; it is only written when decoding succeeds.
func (d *Decoder) Decode(data []byte, out any) error {
	dst, terr := target(out)
	if terr != nil {
		return d.reject(terr)
	}
	t := dst.Type().Elem()
	if len(data) == 0 {
		return d.reject(invalidInput(t.String(), "source buffer is nil or empty"))
	}
	plan := d.getPlan(t)
	if plan.err != nil {
		return d.reject(plan.err)
	}
	fresh := reflect.New(t)
	if err := d.decode(plan, data, fresh.UnsafePointer()); err != nil {
		return err
	}
	dst.Elem().Set(fresh.Elem())
	return nil
}

// DecodeReader reads exactly one layout's worth of bytes from r and
// decodes them into out. r is not closed.
func (d *Decoder) DecodeReader(r io.Reader, out any) error {
	dst, terr := target(out)
	if terr != nil {
		return d.reject(terr)
	}
	t := dst.Type().Elem()
	if cerr := checkReader(r, t); cerr != nil {
		return d.reject(cerr)
	}
	plan := d.getPlan(t)
	if plan.err != nil {
		return d.reject(plan.err)
	}
	buf, rerr := d.read(r, plan)
	if rerr != nil {
		return d.reject(rerr)
	}
	fresh := reflect.New(t)
	if err := d.decode(plan, buf, fresh.UnsafePointer()); err != nil {
		return err
	}
	dst.Elem().Set(fresh.Elem())
	return nil
}

func target(out any) (reflect.Value, *Error) {
	if out == nil {
		return reflect.Value{}, invalidInput("", "destination is nil")
	}
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer {
		return reflect.Value{}, invalidInput(v.Type().String(), "destination must be a pointer")
	}
	if v.IsNil() {
		return reflect.Value{}, invalidInput(v.Type().String(), "destination pointer is nil")
	}
	return v, nil
}

func checkReader(r io.Reader, t reflect.Type) *Error {
	if r == nil {
		return invalidInput(t.String(), "source reader is nil")
	}
	if r == NoReader {
		return invalidInput(t.String(), "source reader is NoReader")
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice:
		if v.IsNil() {
			return invalidInput(t.String(), "source reader is a nil "+v.Type().String())
		}
	}
	return nil
}

// read pulls plan.size bytes from r according to the stream mode.
func (d *Decoder) read(r io.Reader, plan *LayoutPlan) ([]byte, *Error) {
	buf := make([]byte, plan.size)
	var n int
	var err error
	switch d.Opts.StreamMode {
	case StreamSingleRead:
		n, err = r.Read(buf)
	default:
		n, err = io.ReadFull(r, buf)
	}
	if n >= plan.size {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, truncated(plan.typ.String(), plan.size, n, err)
	}
	return nil, readFailed(plan.typ.String(), err)
}

// decode is the single path every source funnels into. Nothing is written
// to base unless every check has passed.
func (d *Decoder) decode(plan *LayoutPlan, data []byte, base unsafe.Pointer) (err error) {
	if len(data) < plan.size {
		return d.reject(truncated(plan.typ.String(), plan.size, len(data), nil))
	}
	work := make([]byte, plan.size)
	copy(work, data)

	// fill only panics on a leaf kind the plan compiler emitted but
	// SetFixed does not handle.
	defer func() {
		if r := recover(); r != nil {
			err = d.reject(&Error{
				Kind:   KindUnsupportedLayout,
				Type:   plan.typ.String(),
				Detail: "field decode failed",
				Cause:  fmt.Errorf("%v", r),
			})
		}
	}()
	plan.fill(base, work)
	return nil
}

func (d *Decoder) reject(err *Error) error {
	d.logger().Debug("decode rejected",
		zap.String("kind", string(err.Kind)),
		zap.String("type", err.Type),
		zap.Error(err))
	return err
}
