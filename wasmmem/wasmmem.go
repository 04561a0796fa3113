// Package wasmmem decodes fixed-layout records out of a WebAssembly guest's
// linear memory.
//
// The window is read through api.Memory and copied before decoding, so the
// returned value stays valid after the guest writes to, grows or closes its
// memory.
package wasmmem

import (
	"reflect"

	"github.com/rawbytedev/rawtype"
	"github.com/tetratelabs/wazero/api"
)

// Decode decodes a T stored at offset in mem.
func Decode[T any](mem api.Memory, offset uint32) (T, error) {
	return DecodeWith[T](rawtype.Default(), mem, offset)
}

func DecodeWith[T any](d *rawtype.Decoder, mem api.Memory, offset uint32) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]().String()
	if mem == nil {
		return zero, &rawtype.Error{
			Kind:   rawtype.KindInvalidInput,
			Type:   typ,
			Detail: "guest memory is nil",
		}
	}
	size, err := rawtype.SizeOfWith[T](d)
	if err != nil {
		return zero, err
	}

	limit := uint64(mem.Size())
	if uint64(offset)+uint64(size) > limit {
		return zero, outOfRange(typ, size, offset, limit)
	}
	view, ok := mem.Read(offset, uint32(size))
	if !ok {
		return zero, outOfRange(typ, size, offset, limit)
	}
	return rawtype.DecodeWith[T](d, view)
}

func outOfRange(typ string, size int, offset uint32, limit uint64) *rawtype.Error {
	actual := 0
	if uint64(offset) < limit {
		actual = int(limit - uint64(offset))
	}
	return &rawtype.Error{
		Kind:     rawtype.KindTruncatedInput,
		Type:     typ,
		Required: size,
		Actual:   actual,
		Detail:   "window runs past the end of guest memory",
	}
}
