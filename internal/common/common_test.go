package common

import (
	"math"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestFixedSizeMatchesSizeof(t *testing.T) {
	samples := []any{
		false, int8(0), uint8(0), int16(0), uint16(0), int32(0), uint32(0),
		int64(0), uint64(0), int(0), uint(0), uintptr(0),
		float32(0), float64(0), complex64(0), complex128(0),
	}
	for _, s := range samples {
		typ := reflect.TypeOf(s)
		require.True(t, IsFixedKind(typ.Kind()), typ.String())
		require.Equal(t, int(typ.Size()), FixedSize(typ.Kind()), typ.String())
	}
	for _, k := range []reflect.Kind{reflect.String, reflect.Slice, reflect.Pointer, reflect.Struct, reflect.Array} {
		require.False(t, IsFixedKind(k), k.String())
		require.Equal(t, -1, FixedSize(k), k.String())
	}
}

func TestSetPutFixedRoundTrip(t *testing.T) {
	check := func(v any) {
		t.Helper()
		typ := reflect.TypeOf(v)
		src := reflect.New(typ)
		src.Elem().Set(reflect.ValueOf(v))

		buf := make([]byte, FixedSize(typ.Kind()))
		PutFixed(buf, src.UnsafePointer(), typ.Kind())

		dst := reflect.New(typ)
		SetFixed(dst.UnsafePointer(), buf, typ.Kind())
		require.Equal(t, v, dst.Elem().Interface())
	}
	check(true)
	check(int8(-128))
	check(uint8(255))
	check(int16(-12345))
	check(uint16(0xBEEF))
	check(int32(math.MinInt32))
	check(uint32(0xDEADBEEF))
	check(int64(math.MinInt64))
	check(uint64(math.MaxUint64))
	check(int(-42))
	check(uint(42))
	check(uintptr(0x1000))
	check(float32(-3.5))
	check(math.Pi)
	check(complex64(complex(1.5, -2.5)))
	check(complex(math.E, math.Pi))
}

func TestFixedUsesHostOrder(t *testing.T) {
	var v uint32 = 0x01020304
	buf := make([]byte, 4)
	PutFixed(buf, unsafe.Pointer(&v), reflect.Uint32)
	require.Equal(t, (*[4]byte)(unsafe.Pointer(&v))[:], buf)
}

func TestSetFixedBoolAnyNonZero(t *testing.T) {
	var b bool
	SetFixed(unsafe.Pointer(&b), []byte{0x40}, reflect.Bool)
	require.True(t, b)
	SetFixed(unsafe.Pointer(&b), []byte{0x00}, reflect.Bool)
	require.False(t, b)
}
