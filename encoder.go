package rawtype

import (
	"reflect"
	"unsafe"
)

// Encode returns the native byte image of v: the exact bytes Decode[T]
// turns back into v. Padding between fields is zero.
func Encode[T any](v T) ([]byte, error) {
	return EncodeWith(std, v)
}

func EncodeWith[T any](d *Decoder, v T) ([]byte, error) {
	plan := d.getPlan(reflect.TypeFor[T]())
	if plan.err != nil {
		return nil, d.reject(plan.err)
	}
	buf := make([]byte, plan.size)
	plan.emit(buf, unsafe.Pointer(&v))
	return buf, nil
}

// Encode is the dynamic form of Encode. A non-nil pointer is encoded as
// the value it points to.
func (d *Decoder) Encode(val any) ([]byte, error) {
	if val == nil {
		return nil, d.reject(invalidInput("", "value is nil"))
	}
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, d.reject(invalidInput(v.Type().String(), "value pointer is nil"))
		}
		v = v.Elem()
	}

	plan := d.getPlan(v.Type())
	if plan.err != nil {
		return nil, d.reject(plan.err)
	}
	// emit reads through a pointer, so work from an addressable copy
	tmp := reflect.New(v.Type())
	tmp.Elem().Set(v)

	buf := make([]byte, plan.size)
	plan.emit(buf, tmp.UnsafePointer())
	return buf, nil
}
