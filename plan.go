package rawtype

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/rawbytedev/rawtype/internal/common"
	"go.uber.org/zap"
)

// opBytes marks a leaf that is a byte array copied as a block.
const opBytes = reflect.Array

// LayoutPlan is the compiled, reusable view of a fixed-layout type: its
// exact size and every leaf field it is built from, flattened with the
// absolute offset the host compiler gave it.
type LayoutPlan struct {
	typ  reflect.Type
	size int
	ops  []fieldOp
	err  *Error // cached: a type that failed to compile never becomes valid
}

type fieldOp struct {
	offset uintptr
	kind   reflect.Kind
	width  int
}

// Size returns the number of bytes the layout occupies.
func (p *LayoutPlan) Size() int { return p.size }

// Fields returns the number of leaf fields that will be populated.
func (p *LayoutPlan) Fields() int { return len(p.ops) }

// Type returns the layout's Go type.
func (p *LayoutPlan) Type() reflect.Type { return p.typ }

// Err returns the reason the layout cannot be decoded, or nil.
func (p *LayoutPlan) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// getPlan returns the cached plan for t, compiling it on first use.
func (d *Decoder) getPlan(t reflect.Type) *LayoutPlan {
	d.mu.RLock()
	if plan, ok := d.plan[t]; ok {
		d.mu.RUnlock()
		return plan
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check
	if plan, ok := d.plan[t]; ok {
		return plan
	}

	plan := compilePlan(t)
	d.plan[t] = plan
	if plan.err != nil {
		d.logger().Debug("layout rejected",
			zap.Stringer("type", t),
			zap.Error(plan.err))
	} else {
		d.logger().Debug("layout compiled",
			zap.Stringer("type", t),
			zap.Int("size", plan.size),
			zap.Int("fields", len(plan.ops)))
	}
	return plan
}

func compilePlan(t reflect.Type) *LayoutPlan {
	if t == nil {
		return &LayoutPlan{err: uninstantiable("<nil>", "no type to construct")}
	}
	plan := &LayoutPlan{typ: t}
	if t.Kind() == reflect.Interface {
		plan.err = uninstantiable(t.String(), "interface types have no concrete layout to construct")
		return plan
	}
	if err := plan.walk(t, 0, nil, true); err != nil {
		plan.err = err
		plan.ops = nil
		return plan
	}
	plan.size = int(t.Size())
	if plan.size == 0 {
		plan.err = unsupported(t.String(), nil, "zero-size layout has nothing to decode")
	}
	return plan
}

// walk validates t and, when emit is set, appends its leaves at base.
// Blank fields and empty arrays are validated with emit unset.
func (p *LayoutPlan) walk(t reflect.Type, base uintptr, path []string, emit bool) *Error {
	k := t.Kind()
	switch {
	case common.IsFixedKind(k):
		if emit {
			p.ops = append(p.ops, fieldOp{offset: base, kind: k, width: common.FixedSize(k)})
		}
		return nil

	case k == reflect.Array:
		elem := t.Elem()
		n := t.Len()
		if ek := elem.Kind(); ek == reflect.Uint8 || ek == reflect.Int8 {
			if emit && n > 0 {
				p.ops = append(p.ops, fieldOp{offset: base, kind: opBytes, width: n})
			}
			return nil
		}
		if n == 0 {
			return p.walk(elem, base, appendPath(path, "[0]"), false)
		}
		for i := 0; i < n; i++ {
			at := base + uintptr(i)*elem.Size()
			if err := p.walk(elem, at, appendPath(path, "["+strconv.Itoa(i)+"]"), emit); err != nil {
				return err
			}
		}
		return nil

	case k == reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if err := p.walk(sf.Type, base+sf.Offset, appendPath(path, sf.Name), emit && sf.Name != "_"); err != nil {
				return err
			}
		}
		return nil

	default:
		return unsupported(p.typ.String(), path, "field of kind %s is not blittable", k)
	}
}

// appendPath returns a new slice so sibling paths never share a backing array.
func appendPath(path []string, elem string) []string {
	if len(path) > 0 && len(elem) > 0 && elem[0] == '[' {
		out := make([]string, len(path))
		copy(out, path)
		out[len(out)-1] += elem
		return out
	}
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

// fill populates the value at base from buf, one leaf at a time.
// buf must be exactly p.size bytes.
func (p *LayoutPlan) fill(base unsafe.Pointer, buf []byte) {
	for _, op := range p.ops {
		start := int(op.offset)
		src := buf[start : start+op.width]
		ptr := unsafe.Add(base, op.offset)
		if op.kind == opBytes {
			copy(unsafe.Slice((*byte)(ptr), op.width), src)
			continue
		}
		common.SetFixed(ptr, src, op.kind)
	}
}

// emit writes the value at base into buf; padding bytes are left as they are.
func (p *LayoutPlan) emit(buf []byte, base unsafe.Pointer) {
	for _, op := range p.ops {
		start := int(op.offset)
		dst := buf[start : start+op.width]
		ptr := unsafe.Add(base, op.offset)
		if op.kind == opBytes {
			copy(dst, unsafe.Slice((*byte)(ptr), op.width))
			continue
		}
		common.PutFixed(dst, ptr, op.kind)
	}
}
