package rawtype

import (
	"bytes"
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSizeOfMatchesCompiler(t *testing.T) {
	check := func(got int, err error, want uintptr) {
		t.Helper()
		require.NoError(t, err)
		require.Equal(t, int(want), got)
	}
	n, err := SizeOf[Point]()
	check(n, err, unsafe.Sizeof(Point{}))
	n, err = SizeOf[Mixed]()
	check(n, err, unsafe.Sizeof(Mixed{}))
	n, err = SizeOf[Outer]()
	check(n, err, unsafe.Sizeof(Outer{}))
	n, err = SizeOf[withBlank]()
	check(n, err, unsafe.Sizeof(withBlank{}))
	n, err = SizeOf[[5]complex128]()
	check(n, err, unsafe.Sizeof([5]complex128{}))

	_, err = SizeOf[struct{ S string }]()
	require.ErrorIs(t, err, ErrUnsupportedLayout)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate[Point]())
	require.NoError(t, Validate[struct {
		A int
		B uint
		C uintptr
	}]())
	require.ErrorIs(t, Validate[struct{ M map[string]int }](), ErrUnsupportedLayout)
	require.ErrorIs(t, Validate[any](), ErrUninstantiableType)
}

func TestPlanFlattensLeaves(t *testing.T) {
	d := NewDecoder(Options{})
	plan := d.Plan(reflect.TypeFor[Outer]())
	require.NoError(t, plan.Err())
	// Head(2) + Items(3*2) + Vals(2) + Tail(1)
	assert.Equal(t, 11, plan.Fields())
	assert.Equal(t, int(unsafe.Sizeof(Outer{})), plan.Size())
	assert.Equal(t, reflect.TypeFor[Outer](), plan.Type())

	offsets := make([]uintptr, 0, len(plan.ops))
	for _, op := range plan.ops {
		offsets = append(offsets, op.offset)
	}
	assert.Equal(t, []uintptr{
		unsafe.Offsetof(Outer{}.Head), unsafe.Offsetof(Outer{}.Head) + 2,
		unsafe.Offsetof(Outer{}.Items), unsafe.Offsetof(Outer{}.Items) + 2,
		unsafe.Offsetof(Outer{}.Items) + 4, unsafe.Offsetof(Outer{}.Items) + 6,
		unsafe.Offsetof(Outer{}.Items) + 8, unsafe.Offsetof(Outer{}.Items) + 10,
		unsafe.Offsetof(Outer{}.Vals), unsafe.Offsetof(Outer{}.Vals) + 4,
		unsafe.Offsetof(Outer{}.Tail),
	}, offsets)
}

func TestPlanByteArraysAreOneLeaf(t *testing.T) {
	type blob struct {
		Head [64]byte
		Sig  [16]int8
	}
	plan := NewDecoder(Options{}).Plan(reflect.TypeFor[blob]())
	require.NoError(t, plan.Err())
	require.Equal(t, 2, plan.Fields())
	assert.Equal(t, 64, plan.ops[0].width)
	assert.Equal(t, 16, plan.ops[1].width)
}

func TestPlanIsCached(t *testing.T) {
	d := NewDecoder(Options{})
	typ := reflect.TypeFor[Mixed]()

	var wg sync.WaitGroup
	plans := make([]*LayoutPlan, 16)
	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plans[i] = d.Plan(typ)
		}(i)
	}
	wg.Wait()
	for _, p := range plans {
		require.Same(t, plans[0], p)
	}

	bad := d.Plan(reflect.TypeFor[struct{ S string }]())
	require.Error(t, bad.Err())
	require.Same(t, bad, d.Plan(reflect.TypeFor[struct{ S string }]()))
}

func TestPlanLogsCompilation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDecoder(Options{Logger: zap.New(core)})

	_ = d.Plan(reflect.TypeFor[Point]())
	_ = d.Plan(reflect.TypeFor[Point]())
	compiled := logs.FilterMessage("layout compiled").All()
	require.Len(t, compiled, 1)
	assert.Equal(t, int64(8), compiled[0].ContextMap()["size"])

	_, err := DecodeWith[Point](d, []byte{1})
	require.ErrorIs(t, err, ErrTruncatedInput)
	rejected := logs.FilterMessage("decode rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, string(KindTruncatedInput), rejected[0].ContextMap()["kind"])
}

func TestEveryRejectionIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDecoder(Options{Logger: zap.New(core)})
	data := make([]byte, 32)

	// the cached plan error is reported on every call, not only when compiled
	var s struct{ S string }
	require.ErrorIs(t, d.Decode(data, &s), ErrUnsupportedLayout)
	require.ErrorIs(t, d.Decode(data, &s), ErrUnsupportedLayout)
	_, err := DecodeWith[struct{ S string }](d, data)
	require.ErrorIs(t, err, ErrUnsupportedLayout)
	_, err = ReadWith[any](d, bytes.NewReader(data))
	require.ErrorIs(t, err, ErrUninstantiableType)
	_, err = EncodeWith(d, struct{ S string }{})
	require.ErrorIs(t, err, ErrUnsupportedLayout)

	require.ErrorIs(t, d.Decode(data, nil), ErrInvalidInput)
	require.ErrorIs(t, d.DecodeReader(bytes.NewReader(data), Point{}), ErrInvalidInput)

	var kinds []string
	for _, e := range logs.FilterMessage("decode rejected").All() {
		kinds = append(kinds, e.ContextMap()["kind"].(string))
	}
	assert.Equal(t, []string{
		string(KindUnsupportedLayout),
		string(KindUnsupportedLayout),
		string(KindUnsupportedLayout),
		string(KindUninstantiableType),
		string(KindUnsupportedLayout),
		string(KindInvalidInput),
		string(KindInvalidInput),
	}, kinds)
	assert.Equal(t, 2, logs.FilterMessage("layout rejected").Len())
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	d := NewDecoder(Options{})
	_ = d.Plan(reflect.TypeFor[Inner]())
	require.Equal(t, 1, logs.FilterMessage("layout compiled").Len())
}
