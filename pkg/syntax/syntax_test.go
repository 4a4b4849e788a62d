package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNameFallsBackToRawKind(t *testing.T) {
	node := Unsupported("struct_declaration", "Point")
	assert.Equal(t, "struct_declaration", node.KindName())
	assert.Equal(t, "struct_declaration Point", node.Describe())

	cls := Class("SomeClass", nil)
	assert.Equal(t, "ClassDecl SomeClass", cls.Describe())
}

func TestFieldBuilderWrapsInitializer(t *testing.T) {
	field := Field(Mods("public"), "int", "SomeInt", Int(1))
	require.Len(t, field.Children, 1)
	init := field.First(KindInitializer)
	require.NotNil(t, init)
	assert.Equal(t, KindIntegerLiteral, init.Child(0).Kind)
	assert.Equal(t, "1", init.Child(0).Value)
	assert.True(t, field.HasModifier("public"))
	assert.False(t, field.HasModifier("static"))
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	tree := Unit(
		Using("System"),
		Namespace("N", Class("A", nil), Class("B", nil)),
	)
	var seen []string
	Walk(tree, func(n *Node) bool {
		seen = append(seen, n.Describe())
		return n.Kind != KindNamespace || n.Name != "skip"
	})
	assert.Equal(t, []string{
		"CompilationUnit",
		"UsingDirective System",
		"Namespace N",
		"ClassDecl A",
		"ClassDecl B",
	}, seen)
}

func TestAllFiltersByKind(t *testing.T) {
	prop := Prop(nil, "int", "P", Get(nil), Set(nil), Init(Int(1)))
	assert.Len(t, prop.All(KindAccessor), 2)
	assert.Nil(t, prop.First(KindExpressionBody))
	assert.Nil(t, prop.Child(7))
}

func TestDumpIncludesPayload(t *testing.T) {
	out := Dump(Method(Mods("static"), "int", "Get", nil, Block(Ret(Int(1)))))
	assert.Contains(t, out, "MethodDecl name=Get type=int mods=static")
	assert.Contains(t, out, "    IntegerLiteral value=\"1\"")
}

func TestExpressionKinds(t *testing.T) {
	assert.True(t, KindInvocation.IsExpression())
	assert.False(t, KindBlock.IsExpression())
	assert.Equal(t, "unknown_kind_999", Kind(999).String())
}
