package main

import (
	"io"
	"sort"
	"strings"

	"github.com/rawbytedev/rawtype"
)

// Point is the two-coordinate record used in the docs.
type Point struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// ELFIdent is the 16-byte e_ident block that opens every ELF file.
type ELFIdent struct {
	Magic      [4]byte `yaml:"magic"`
	Class      uint8   `yaml:"class"`
	Data       uint8   `yaml:"data"`
	Version    uint8   `yaml:"version"`
	OSABI      uint8   `yaml:"osabi"`
	ABIVersion uint8   `yaml:"abi_version"`
	_          [7]byte
}

// ELF64Header is the 64-byte ELF64 file header.
type ELF64Header struct {
	Ident     ELFIdent `yaml:"ident"`
	Type      uint16   `yaml:"type"`
	Machine   uint16   `yaml:"machine"`
	Version   uint32   `yaml:"version"`
	Entry     uint64   `yaml:"entry"`
	Phoff     uint64   `yaml:"phoff"`
	Shoff     uint64   `yaml:"shoff"`
	Flags     uint32   `yaml:"flags"`
	Ehsize    uint16   `yaml:"ehsize"`
	Phentsize uint16   `yaml:"phentsize"`
	Phnum     uint16   `yaml:"phnum"`
	Shentsize uint16   `yaml:"shentsize"`
	Shnum     uint16   `yaml:"shnum"`
	Shstrndx  uint16   `yaml:"shstrndx"`
}

// WAVHeader is the canonical 44-byte RIFF/WAVE header.
type WAVHeader struct {
	ChunkID       [4]byte `yaml:"chunk_id"`
	ChunkSize     uint32  `yaml:"chunk_size"`
	Format        [4]byte `yaml:"format"`
	Subchunk1ID   [4]byte `yaml:"subchunk1_id"`
	Subchunk1Size uint32  `yaml:"subchunk1_size"`
	AudioFormat   uint16  `yaml:"audio_format"`
	NumChannels   uint16  `yaml:"num_channels"`
	SampleRate    uint32  `yaml:"sample_rate"`
	ByteRate      uint32  `yaml:"byte_rate"`
	BlockAlign    uint16  `yaml:"block_align"`
	BitsPerSample uint16  `yaml:"bits_per_sample"`
	Subchunk2ID   [4]byte `yaml:"subchunk2_id"`
	Subchunk2Size uint32  `yaml:"subchunk2_size"`
}

type record struct {
	size func() (int, error)
	read func(d *rawtype.Decoder, r io.Reader) (any, error)
}

func entry[T any]() record {
	return record{
		size: func() (int, error) { return rawtype.SizeOf[T]() },
		read: func(d *rawtype.Decoder, r io.Reader) (any, error) {
			v, err := rawtype.ReadWith[T](d, r)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

var records = map[string]record{
	"point":        entry[Point](),
	"elf-ident":    entry[ELFIdent](),
	"elf64-header": entry[ELF64Header](),
	"wav-header":   entry[WAVHeader](),
}

func recordNames() string {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
