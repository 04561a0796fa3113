// Package rawtype decodes raw byte windows into fixed-layout Go values.
//
// A layout is any Go type built only from blittable parts: booleans,
// sized integers, floats, complex numbers, fixed arrays of those and
// structs of those. Its size, field offsets and padding are the ones the Go
// compiler chose for the host, and bytes are read in the host's native
// byte order. Nothing is converted.
//
//	type Point struct {
//		X, Y int32
//	}
//
//	p, err := rawtype.Decode[Point]([]byte{1, 0, 0, 0, 2, 0, 0, 0})
//	// p == Point{X: 1, Y: 2} on a little-endian host
//
// Decoding never aliases its source: the requested window is copied into a
// working buffer and every field is written into a fresh value one at a
// time. All validation happens before the first field is written, so a
// failed decode never yields a partially populated value.
//
// The null stream is a nil reader, a nil value of any reader type, or
// NoReader; all are invalid_input. http.NoBody is an ordinary empty reader
// and fails with truncated_input.
//
// Failures are *Error values whose Kind can be matched with errors.Is
// against ErrInvalidInput, ErrTruncatedInput, ErrUnsupportedLayout,
// ErrUninstantiableType and ErrReadFailed.
package rawtype

import (
	"io"
	"reflect"
	"unsafe"
)

var std = NewDecoder(Options{})

// Default returns the Decoder used by the package-level functions.
func Default() *Decoder { return std }

// Decode decodes the first SizeOf[T] bytes of data into a new T.
// Extra trailing bytes are ignored.
func Decode[T any](data []byte) (T, error) {
	return DecodeWith[T](std, data)
}

// Read reads one T worth of bytes from r and decodes it.
func Read[T any](r io.Reader) (T, error) {
	return ReadWith[T](std, r)
}

func DecodeWith[T any](d *Decoder, data []byte) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	if len(data) == 0 {
		return zero, d.reject(invalidInput(t.String(), "source buffer is nil or empty"))
	}
	plan := d.getPlan(t)
	if plan.err != nil {
		return zero, d.reject(plan.err)
	}
	var v T
	if err := d.decode(plan, data, unsafe.Pointer(&v)); err != nil {
		return zero, err
	}
	return v, nil
}

func ReadWith[T any](d *Decoder, r io.Reader) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	if err := checkReader(r, t); err != nil {
		return zero, d.reject(err)
	}
	plan := d.getPlan(t)
	if plan.err != nil {
		return zero, d.reject(plan.err)
	}
	buf, err := d.read(r, plan)
	if err != nil {
		return zero, d.reject(err)
	}
	var v T
	if err := d.decode(plan, buf, unsafe.Pointer(&v)); err != nil {
		return zero, err
	}
	return v, nil
}

// SizeOf returns the exact number of bytes a T is decoded from.
func SizeOf[T any]() (int, error) {
	return SizeOfWith[T](std)
}

func SizeOfWith[T any](d *Decoder) (int, error) {
	plan := d.getPlan(reflect.TypeFor[T]())
	if plan.err != nil {
		return 0, plan.err
	}
	return plan.size, nil
}

// Validate reports whether T can be decoded at all.
func Validate[T any]() error {
	return std.getPlan(reflect.TypeFor[T]()).Err()
}
