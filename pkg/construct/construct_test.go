package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathOmitsImplicitRoot(t *testing.T) {
	root := NewModule("")
	outer, ok := root.ChildModule("Outer")
	require.True(t, ok)
	inner, ok := outer.ChildModule("Inner")
	require.True(t, ok)
	cls, added := inner.Add(&Construct{Kind: KindClass, Name: "SomeClass"})
	require.True(t, added)
	method, _ := cls.Add(&Construct{Kind: KindInstanceMethod, Name: "Go"})

	assert.Equal(t, "", root.Path())
	assert.Equal(t, "Outer.Inner.SomeClass", cls.Path())
	assert.Equal(t, "Outer.Inner.SomeClass.Go", method.Path())
	assert.Same(t, cls, method.EnclosingClass())
	assert.Same(t, inner, method.EnclosingModule())
}

func TestChildModuleMergesRepeatedNamespaces(t *testing.T) {
	root := NewModule("")
	first, _ := root.ChildModule("N")
	second, _ := root.ChildModule("N")
	assert.Same(t, first, second)
	assert.Len(t, root.Members, 1)

	root.Add(&Construct{Kind: KindClass, Name: "C"})
	_, ok := root.ChildModule("C")
	assert.False(t, ok)
}

func TestAddRejectsDuplicates(t *testing.T) {
	cls := &Construct{Kind: KindClass, Name: "C"}
	field := &Construct{Kind: KindInstanceField, Name: "X"}
	_, ok := cls.Add(field)
	require.True(t, ok)

	existing, ok := cls.Add(&Construct{Kind: KindStaticMethod, Name: "X"})
	assert.False(t, ok)
	assert.Same(t, field, existing)
	assert.Len(t, cls.Members, 1)
}

func TestReserveBlocksLaterMembers(t *testing.T) {
	cls := &Construct{Kind: KindClass, Name: "C"}
	prop := &Construct{Kind: KindProperty, Name: "P"}
	cls.Add(prop)
	_, ok := cls.Reserve("_get_P", prop)
	require.True(t, ok)

	owner, ok := cls.Add(&Construct{Kind: KindInstanceMethod, Name: "_get_P"})
	assert.False(t, ok)
	assert.Same(t, prop, owner)
	found, ok := cls.Lookup("_get_P")
	assert.True(t, ok)
	assert.Same(t, prop, found)
}

func TestClassesDepthFirst(t *testing.T) {
	root := NewModule("")
	root.Add(&Construct{Kind: KindClass, Name: "A"})
	ns, _ := root.ChildModule("N")
	ns.Add(&Construct{Kind: KindClass, Name: "B"})
	root.Add(&Construct{Kind: KindClass, Name: "C"})

	var names []string
	for _, cls := range root.Classes() {
		names = append(names, cls.Path())
	}
	assert.Equal(t, []string{"A", "N.B", "C"}, names)
}

func TestImportsAreDeduplicated(t *testing.T) {
	mod := NewModule("")
	mod.AddImport("System")
	mod.AddImport("System.Text")
	mod.AddImport("System")
	assert.Equal(t, []string{"System", "System.Text"}, mod.Imports)
}

func TestKindStatic(t *testing.T) {
	assert.True(t, KindStaticField.IsStatic())
	assert.True(t, KindStaticMethod.IsStatic())
	assert.False(t, KindProperty.IsStatic())
	assert.False(t, KindModule.IsMember())
	assert.Equal(t, "InstanceField", KindInstanceField.String())
}
