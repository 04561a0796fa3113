package common

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"
	"unsafe"
)

// Host is the byte order fields are read and written in. Records are
// decoded exactly as the host lays them out; no conversion happens.
var Host = binary.NativeEndian

// IsFixedKind reports whether k is a scalar kind with a fixed in-memory width.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed scalar kinds, or -1.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64, reflect.Complex64:
		return 8
	case reflect.Complex128:
		return 16
	case reflect.Int, reflect.Uint:
		return strconv.IntSize / 8
	case reflect.Uintptr:
		return int(unsafe.Sizeof(uintptr(0)))
	default:
		return -1
	}
}

// SetFixed decodes b in host byte order and stores it at ptr.
// ptr must address a value of kind k and b must be FixedSize(k) long.
func SetFixed(ptr unsafe.Pointer, b []byte, k reflect.Kind) {
	switch k {
	case reflect.Bool:
		*(*bool)(ptr) = b[0] != 0
	case reflect.Int8:
		*(*int8)(ptr) = int8(b[0])
	case reflect.Uint8:
		*(*uint8)(ptr) = b[0]
	case reflect.Int16:
		*(*int16)(ptr) = int16(Host.Uint16(b))
	case reflect.Uint16:
		*(*uint16)(ptr) = Host.Uint16(b)
	case reflect.Int32:
		*(*int32)(ptr) = int32(Host.Uint32(b))
	case reflect.Uint32:
		*(*uint32)(ptr) = Host.Uint32(b)
	case reflect.Int64:
		*(*int64)(ptr) = int64(Host.Uint64(b))
	case reflect.Uint64:
		*(*uint64)(ptr) = Host.Uint64(b)
	case reflect.Int:
		*(*int)(ptr) = int(readWord(b))
	case reflect.Uint:
		*(*uint)(ptr) = uint(readWord(b))
	case reflect.Uintptr:
		*(*uintptr)(ptr) = uintptr(readWord(b))
	case reflect.Float32:
		*(*float32)(ptr) = math.Float32frombits(Host.Uint32(b))
	case reflect.Float64:
		*(*float64)(ptr) = math.Float64frombits(Host.Uint64(b))
	case reflect.Complex64:
		re := math.Float32frombits(Host.Uint32(b[0:4]))
		im := math.Float32frombits(Host.Uint32(b[4:8]))
		*(*complex64)(ptr) = complex(re, im)
	case reflect.Complex128:
		re := math.Float64frombits(Host.Uint64(b[0:8]))
		im := math.Float64frombits(Host.Uint64(b[8:16]))
		*(*complex128)(ptr) = complex(re, im)
	default:
		panic("rawtype: SetFixed on non-fixed kind " + k.String())
	}
}

// PutFixed writes the value stored at ptr into b in host byte order.
func PutFixed(b []byte, ptr unsafe.Pointer, k reflect.Kind) {
	switch k {
	case reflect.Bool:
		if *(*bool)(ptr) {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case reflect.Int8:
		b[0] = byte(*(*int8)(ptr))
	case reflect.Uint8:
		b[0] = *(*uint8)(ptr)
	case reflect.Int16:
		Host.PutUint16(b, uint16(*(*int16)(ptr)))
	case reflect.Uint16:
		Host.PutUint16(b, *(*uint16)(ptr))
	case reflect.Int32:
		Host.PutUint32(b, uint32(*(*int32)(ptr)))
	case reflect.Uint32:
		Host.PutUint32(b, *(*uint32)(ptr))
	case reflect.Int64:
		Host.PutUint64(b, uint64(*(*int64)(ptr)))
	case reflect.Uint64:
		Host.PutUint64(b, *(*uint64)(ptr))
	case reflect.Int:
		writeWord(b, uint64(*(*int)(ptr)))
	case reflect.Uint:
		writeWord(b, uint64(*(*uint)(ptr)))
	case reflect.Uintptr:
		writeWord(b, uint64(*(*uintptr)(ptr)))
	case reflect.Float32:
		Host.PutUint32(b, math.Float32bits(*(*float32)(ptr)))
	case reflect.Float64:
		Host.PutUint64(b, math.Float64bits(*(*float64)(ptr)))
	case reflect.Complex64:
		c := *(*complex64)(ptr)
		Host.PutUint32(b[0:4], math.Float32bits(real(c)))
		Host.PutUint32(b[4:8], math.Float32bits(imag(c)))
	case reflect.Complex128:
		c := *(*complex128)(ptr)
		Host.PutUint64(b[0:8], math.Float64bits(real(c)))
		Host.PutUint64(b[8:16], math.Float64bits(imag(c)))
	default:
		panic("rawtype: PutFixed on non-fixed kind " + k.String())
	}
}

// word-sized kinds follow the width of the slice they were planned with
func readWord(b []byte) uint64 {
	if len(b) == 4 {
		return uint64(Host.Uint32(b))
	}
	return Host.Uint64(b)
}

func writeWord(b []byte, x uint64) {
	if len(b) == 4 {
		Host.PutUint32(b, uint32(x))
		return
	}
	Host.PutUint64(b, x)
}
