package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentShadowing(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", IntegerValue{Val: 1})
	local := global.Extend()
	local.Define("x", StringValue{Val: "inner"})

	v, err := local.Get("x")
	require.NoError(t, err)
	assert.Equal(t, StringValue{Val: "inner"}, v)
	v, err = global.Get("x")
	require.NoError(t, err)
	assert.Equal(t, IntegerValue{Val: 1}, v)

	_, err = local.Get("missing")
	assert.EqualError(t, err, "name 'missing' is not defined")
	_, ok := local.Lookup("missing")
	assert.False(t, ok)
	assert.Same(t, global, local.Parent())
	assert.Equal(t, []string{"x"}, local.Keys())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Truthy(None))
	assert.False(t, Truthy(IntegerValue{}))
	assert.False(t, Truthy(StringValue{}))
	assert.True(t, Truthy(FloatValue{Val: 0.5}))
	assert.True(t, Truthy(NewInstance(NewClass("C", "C"))))
}

func TestEquality(t *testing.T) {
	assert.True(t, Equal(IntegerValue{Val: 2}, FloatValue{Val: 2}))
	assert.True(t, Equal(None, nil))
	assert.False(t, Equal(StringValue{Val: "1"}, IntegerValue{Val: 1}))
	cls := NewClass("C", "N.C")
	a, b := NewInstance(cls), NewInstance(cls)
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
}

func TestClassAttributeOrder(t *testing.T) {
	cls := NewClass("C", "C")
	cls.Set("b", IntegerValue{Val: 1})
	cls.Set("a", IntegerValue{Val: 2})
	cls.Set("b", IntegerValue{Val: 3})
	assert.Equal(t, []string{"b", "a"}, cls.Order)
	v, ok := cls.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, IntegerValue{Val: 3}, v)
}

func TestStrAndRepr(t *testing.T) {
	assert.Equal(t, "None", Str(None))
	assert.Equal(t, "True", Str(BoolValue{Val: true}))
	assert.Equal(t, "3.0", Str(FloatValue{Val: 3}))
	assert.Equal(t, "it's", Str(StringValue{Val: "it's"}))
	assert.Equal(t, `'it\'s'`, Repr(StringValue{Val: "it's"}))
	assert.Equal(t, "<N.C object>", Str(NewInstance(NewClass("C", "N.C"))))
	assert.Equal(t, "C", TypeName(NewInstance(NewClass("C", "N.C"))))
	assert.Equal(t, "int", TypeName(IntegerValue{}))
}
