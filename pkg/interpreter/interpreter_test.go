package interpreter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdi1982/CSharpToPython/pkg/hostlib"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
	"github.com/sdi1982/CSharpToPython/pkg/syntax"
	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

var public = syntax.Mods("public")

func run(t *testing.T, root *syntax.Node, opts Options) *Result {
	t.Helper()
	unit, err := translator.Translate(root, translator.Options{})
	require.NoError(t, err)
	result, err := Run(unit, opts)
	require.NoError(t, err)
	return result
}

func mustInt(t *testing.T, v runtime.Value) int64 {
	t.Helper()
	n, ok := v.(runtime.IntegerValue)
	if !ok {
		t.Fatalf("expected int, got %s (%s)", runtime.TypeName(v), runtime.Repr(v))
	}
	return n.Val
}

func TestRunInstantiatesEntryClass(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", public)), Options{})
	require.NotNil(t, result.Root)
	assert.Equal(t, "SomeClass", result.Class.Path)
	assert.Same(t, result.Class, result.Root.Class)
	assert.Empty(t, result.Root.AttrNames())
}

func TestInstanceMethodReturnsLiteral(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Method(public, "int", "SomeMethod", nil, syntax.Block(syntax.Ret(syntax.Int(1)))),
	)), Options{})

	value, err := result.Call("SomeMethod")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, value))
}

func TestStaticSelfCall(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Method(syntax.Mods("public", "static"), "int", "Helper", []*syntax.Node{syntax.Param("int", "x")},
			syntax.Arrow(syntax.Bin("+", syntax.ID("x"), syntax.Int(1)))),
		syntax.Method(public, "int", "UsesHelper", nil,
			syntax.Block(syntax.Ret(syntax.Call(syntax.ID("Helper"), syntax.Int(41))))),
	)), Options{})

	value, err := result.Call("UsesHelper")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mustInt(t, value))

	helper, err := result.Interpreter.GetAttr(result.Class, "Helper")
	require.NoError(t, err)
	value, err = result.Interpreter.Call(helper, []runtime.Value{runtime.IntegerValue{Val: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mustInt(t, value))
}

func TestFieldInitializersAndDefaults(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Field(public, "int", "SomeInt", syntax.Int(1)),
		syntax.Field(public, "object", "SomeObject", nil),
		syntax.Field(public, "double", "Ratio", nil),
	)), Options{})

	some, err := result.Get("SomeInt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, some))

	obj, err := result.Get("SomeObject")
	require.NoError(t, err)
	assert.Equal(t, runtime.KindNone, obj.Kind())

	ratio, err := result.Get("Ratio")
	require.NoError(t, err)
	assert.Equal(t, runtime.FloatValue{Val: 0}, ratio)
}

func TestStaticFieldIsShared(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Field(syntax.Mods("public", "static"), "int", "Count", syntax.Int(0)),
		syntax.Method(public, "void", "Increment", nil,
			syntax.Block(syntax.ExprStmt(syntax.Assign("+=", syntax.ID("Count"), syntax.Int(1))))),
	)), Options{})

	other, err := result.Interpreter.Instantiate(result.Class, nil)
	require.NoError(t, err)
	_, err = result.Call("Increment")
	require.NoError(t, err)
	_, err = result.Call("Increment")
	require.NoError(t, err)

	count, err := result.Interpreter.GetAttr(other, "Count")
	require.NoError(t, err)
	assert.Equal(t, int64(2), mustInt(t, count))
	assert.NotContains(t, result.Root.Attrs, "Count")
}

func TestExplicitPropertyRoundTrip(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Field(syntax.Mods("private"), "int", "_value", nil),
		syntax.Prop(public, "int", "Value",
			syntax.Get(syntax.Block(syntax.Ret(syntax.Member(syntax.This(), "_value")))),
			syntax.Set(syntax.Block(syntax.ExprStmt(syntax.Assign("=", syntax.ID("_value"), syntax.ID("value")))))),
	)), Options{})

	require.NoError(t, result.Set("Value", runtime.IntegerValue{Val: 7}))
	value, err := result.Get("Value")
	require.NoError(t, err)
	assert.Equal(t, int64(7), mustInt(t, value))
	assert.Equal(t, runtime.IntegerValue{Val: 7}, result.Root.Attrs["_value"])
	assert.NotContains(t, result.Root.Attrs, "Value")
}

func TestExpressionBodiedPropertyHasNoSetter(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Prop(public, "int", "Answer", syntax.Arrow(syntax.Int(42))),
	)), Options{})

	value, err := result.Get("Answer")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mustInt(t, value))

	err = result.Set("Answer", runtime.IntegerValue{Val: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, runtime.ErrNoSetterDefined))
	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, "Answer", rtErr.Attr)
	assert.Equal(t, "SomeClass", rtErr.Class)
}

func TestAutoPropertyStoresInBackingSlot(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Prop(public, "int", "Count", syntax.Get(nil), syntax.Set(nil)),
	)), Options{})

	value, err := result.Get("Count")
	require.NoError(t, err)
	assert.Equal(t, int64(0), mustInt(t, value))

	require.NoError(t, result.Set("Count", runtime.IntegerValue{Val: 3}))
	value, err = result.Get("Count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), mustInt(t, value))
	assert.Equal(t, runtime.IntegerValue{Val: 3}, result.Root.Attrs["_Count_backing"])
}

func TestNamespacesAreTransparent(t *testing.T) {
	root := syntax.Unit(syntax.Namespace("Outer",
		syntax.Namespace("Inner", syntax.Class("SomeClass", nil,
			syntax.Method(public, "int", "SomeMethod", nil, syntax.Block(syntax.Ret(syntax.Int(1)))),
		)),
	))
	result := run(t, root, Options{})
	assert.Equal(t, "Outer.Inner.SomeClass", result.Class.Path)

	value, err := result.Call("SomeMethod")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, value))

	class, err := result.Interpreter.Lookup("Outer.Inner.SomeClass")
	require.NoError(t, err)
	assert.Same(t, result.Class, class)
}

func TestEntryOptionSelectsClass(t *testing.T) {
	root := syntax.Unit(
		syntax.Class("First", nil),
		syntax.Class("Second", nil, syntax.Field(public, "int", "X", syntax.Int(5))),
	)
	result := run(t, root, Options{Entry: "Second"})
	assert.Equal(t, "Second", result.Class.Path)

	unit, err := translator.Translate(root, translator.Options{})
	require.NoError(t, err)
	_, err = Run(unit, Options{Entry: "Missing"})
	require.ErrorIs(t, err, ErrNoEntryClass)
}

func TestUsingDirectiveResolvesHostType(t *testing.T) {
	result := run(t, syntax.Unit(
		syntax.Using("System"),
		syntax.Class("SomeClass", nil,
			syntax.Field(public, "object", "Rng", syntax.New("Random", syntax.Int(42))),
			syntax.Method(public, "int", "Roll", nil, syntax.Block(
				syntax.Ret(syntax.Call(syntax.Member(syntax.ID("Rng"), "Next"), syntax.Int(1), syntax.Int(7))),
			)),
		),
	), Options{})

	rng, err := result.Get("Rng")
	require.NoError(t, err)
	inst, ok := rng.(*runtime.InstanceValue)
	require.True(t, ok)
	assert.Equal(t, "System.Random", inst.Class.Path)

	for n := 0; n < 20; n++ {
		value, err := result.Call("Roll")
		require.NoError(t, err)
		roll := mustInt(t, value)
		assert.GreaterOrEqual(t, roll, int64(1))
		assert.Less(t, roll, int64(7))
	}
}

func TestForwardClassReferences(t *testing.T) {
	root := syntax.Unit(syntax.Namespace("N",
		syntax.Class("First", nil,
			syntax.Field(syntax.Mods("public", "static"), "Second", "Partner", syntax.New("Second")),
		),
		syntax.Class("Second", nil,
			syntax.Method(public, "int", "Id", nil, syntax.Arrow(syntax.Int(2))),
		),
	))
	result := run(t, root, Options{})

	partner, err := result.Get("Partner")
	require.NoError(t, err)
	inst, ok := partner.(*runtime.InstanceValue)
	require.True(t, ok)
	assert.Equal(t, "N.Second", inst.Class.Path)

	id, err := result.Interpreter.CallMethod(inst, "Id")
	require.NoError(t, err)
	assert.Equal(t, int64(2), mustInt(t, id))
}

func TestConsoleWritesToConfiguredStdout(t *testing.T) {
	var out bytes.Buffer
	result := run(t, syntax.Unit(
		syntax.Using("System"),
		syntax.Class("Program", nil,
			syntax.Method(public, "void", "Main", nil, syntax.Block(
				syntax.Local("var", "i", syntax.Int(0)),
				syntax.While(syntax.Bin("<", syntax.ID("i"), syntax.Int(3)), syntax.Block(
					syntax.ExprStmt(syntax.Call(syntax.Member(syntax.ID("Console"), "Write"), syntax.ID("i"))),
					syntax.ExprStmt(syntax.Unary("++", syntax.ID("i"))),
				)),
				syntax.ExprStmt(syntax.Call(syntax.Member(syntax.ID("Console"), "WriteLine"), syntax.Str(" done"))),
			)),
		),
	), Options{Stdout: &out})

	_, err := result.Call("Main")
	require.NoError(t, err)
	assert.Equal(t, "012 done\n", out.String())
}

func TestStringBuilderAndDateTime(t *testing.T) {
	result := run(t, syntax.Unit(
		syntax.Using("System"),
		syntax.Using("System.Text"),
		syntax.Class("Program", nil,
			syntax.Method(public, "string", "Build", nil, syntax.Block(
				syntax.Local("var", "sb", syntax.New("StringBuilder")),
				syntax.ExprStmt(syntax.Call(syntax.Member(syntax.Call(syntax.Member(syntax.ID("sb"), "Append"), syntax.Str("a")), "Append"), syntax.Int(1))),
				syntax.Ret(syntax.Call(syntax.Member(syntax.ID("sb"), "ToString"))),
			)),
			syntax.Method(public, "int", "Day", nil, syntax.Block(
				syntax.Ret(syntax.Member(
					syntax.Call(syntax.Member(syntax.New("DateTime", syntax.Int(2024), syntax.Int(2), syntax.Int(28)), "AddDays"), syntax.Int(2)),
					"Day")),
			)),
		),
	), Options{})

	built, err := result.Call("Build")
	require.NoError(t, err)
	assert.Equal(t, runtime.StringValue{Val: "a1"}, built)

	day, err := result.Call("Day")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, day))
}

func TestHostClassesCoverCatalog(t *testing.T) {
	implemented := HostTypes()
	for _, info := range hostlib.Default().Types() {
		assert.Contains(t, implemented, info.FullName())
	}
	assert.Len(t, implemented, len(hostlib.Default().Types()))
}

func TestImportUnknownNamespace(t *testing.T) {
	i := New(Options{})
	err := i.EvaluateModule(pyast.NewModule([]pyast.Stmt{pyast.NewImport("Company.Tools")}))
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestOperators(t *testing.T) {
	cases := []struct {
		op          string
		left, right runtime.Value
		want        runtime.Value
	}{
		{"+", runtime.IntegerValue{Val: 2}, runtime.IntegerValue{Val: 3}, runtime.IntegerValue{Val: 5}},
		{"/", runtime.IntegerValue{Val: 7}, runtime.IntegerValue{Val: 2}, runtime.FloatValue{Val: 3.5}},
		{"//", runtime.IntegerValue{Val: 7}, runtime.IntegerValue{Val: 2}, runtime.IntegerValue{Val: 3}},
		{"//", runtime.IntegerValue{Val: -7}, runtime.IntegerValue{Val: 2}, runtime.IntegerValue{Val: -4}},
		{"//", runtime.FloatValue{Val: 7.5}, runtime.IntegerValue{Val: 2}, runtime.FloatValue{Val: 3}},
		{"%", runtime.IntegerValue{Val: -7}, runtime.IntegerValue{Val: 3}, runtime.IntegerValue{Val: 2}},
		{"*", runtime.IntegerValue{Val: 2}, runtime.FloatValue{Val: 1.5}, runtime.FloatValue{Val: 3}},
		{"+", runtime.StringValue{Val: "a"}, runtime.StringValue{Val: "b"}, runtime.StringValue{Val: "ab"}},
		{"<", runtime.IntegerValue{Val: 1}, runtime.FloatValue{Val: 1.5}, runtime.BoolValue{Val: true}},
		{"==", runtime.IntegerValue{Val: 1}, runtime.FloatValue{Val: 1}, runtime.BoolValue{Val: true}},
		{"!=", runtime.None, runtime.None, runtime.BoolValue{Val: false}},
	}
	for _, tc := range cases {
		got, err := binaryOp(tc.op, tc.left, tc.right)
		if err != nil {
			t.Fatalf("%s %s %s: %v", runtime.Repr(tc.left), tc.op, runtime.Repr(tc.right), err)
		}
		assert.Equal(t, tc.want, got, "%s %s %s", runtime.Repr(tc.left), tc.op, runtime.Repr(tc.right))
	}

	_, err := binaryOp("/", runtime.IntegerValue{Val: 1}, runtime.IntegerValue{Val: 0})
	require.ErrorIs(t, err, ErrZeroDivision)
	_, err = binaryOp("//", runtime.IntegerValue{Val: 1}, runtime.IntegerValue{Val: 0})
	require.ErrorIs(t, err, ErrZeroDivision)
	_, err = binaryOp("+", runtime.StringValue{Val: "a"}, runtime.IntegerValue{Val: 1})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestShortCircuitYieldsOperand(t *testing.T) {
	i := New(Options{})
	env := i.GlobalEnvironment()
	// The right operand is unbound; evaluating it would fail.
	value, err := i.evaluateExpression(pyast.NewBinOp("and", pyast.NewConstant(int64(0)), pyast.NewName("missing")), env)
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 0}, value)

	value, err = i.evaluateExpression(pyast.NewBinOp("or", pyast.NewConstant("x"), pyast.NewName("missing")), env)
	require.NoError(t, err)
	assert.Equal(t, runtime.StringValue{Val: "x"}, value)
}

func TestCallArityAndNotCallable(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Method(public, "int", "SomeMethod", nil, syntax.Block(syntax.Ret(syntax.Int(1)))),
	)), Options{})

	_, err := result.Call("SomeMethod", runtime.IntegerValue{Val: 1})
	require.ErrorIs(t, err, ErrArity)

	_, err = result.Interpreter.Call(runtime.IntegerValue{Val: 1}, nil)
	require.ErrorIs(t, err, ErrNotCallable)

	_, err = result.Get("Missing")
	require.ErrorIs(t, err, runtime.ErrAttributeNotFound)
}

func TestMethodNamedPropertyDoesNotBreakDescriptors(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Method(public, "int", "property", nil, syntax.Arrow(syntax.Int(3))),
		syntax.Prop(public, "int", "P", syntax.Arrow(syntax.Int(1))),
	)), Options{})

	value, err := result.Get("P")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, value))

	value, err = result.Call("property_")
	require.NoError(t, err)
	assert.Equal(t, int64(3), mustInt(t, value))
}

func TestParameterNamedLikeClass(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Namespace("N", syntax.Class("Foo", nil,
		syntax.Field(syntax.Mods("public", "static"), "int", "S", syntax.Int(40)),
		syntax.Method(syntax.Mods("public", "static"), "int", "Add", []*syntax.Node{syntax.Param("int", "Foo")},
			syntax.Arrow(syntax.Bin("+", syntax.ID("Foo"), syntax.ID("S")))),
		syntax.Method(public, "int", "Run", nil, syntax.Block(
			syntax.Local("var", "N", syntax.Int(2)),
			syntax.Ret(syntax.Call(syntax.ID("Add"), syntax.ID("N"))),
		)),
	))), Options{})

	value, err := result.Call("Run")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mustInt(t, value))
}

func TestStaticFieldWithoutInitializerReadsNone(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Field(public, "int", "Marker", syntax.Int(1)),
		syntax.Field(syntax.Mods("public", "static"), "object", "Shared", nil),
	)), Options{})

	value, err := result.Get("Shared")
	require.NoError(t, err)
	assert.Equal(t, runtime.KindNone, value.Kind())

	value, err = result.Interpreter.GetAttr(result.Class, "Shared")
	require.NoError(t, err)
	assert.Equal(t, runtime.KindNone, value.Kind())
	assert.NotContains(t, result.Root.Attrs, "Shared")
}

func TestInitializedAutoPropertyRoundTrip(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Prop(public, "int", "Level", syntax.Get(nil), syntax.Set(nil), syntax.Init(syntax.Int(1))),
	)), Options{})

	value, err := result.Get("Level")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, value))

	require.NoError(t, result.Set("Level", runtime.IntegerValue{Val: 2}))
	value, err = result.Get("Level")
	require.NoError(t, err)
	assert.Equal(t, int64(2), mustInt(t, value))
	assert.Equal(t, runtime.IntegerValue{Val: 2}, result.Root.Attrs["_Level_backing"])
}

func TestExpressionBodiedPropertySurvivesFailedWrite(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Prop(public, "int", "Answer", syntax.Arrow(syntax.Int(42))),
	)), Options{})

	err := result.Set("Answer", runtime.IntegerValue{Val: 7})
	require.ErrorIs(t, err, runtime.ErrNoSetterDefined)

	value, err := result.Get("Answer")
	require.NoError(t, err)
	assert.Equal(t, int64(42), mustInt(t, value))
	assert.NotContains(t, result.Root.Attrs, "Answer")
}

func TestIntegerDivisionMatchesDeclaredTypes(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Method(public, "int", "Div", []*syntax.Node{syntax.Param("int", "a"), syntax.Param("int", "b")},
			syntax.Arrow(syntax.Bin("/", syntax.ID("a"), syntax.ID("b")))),
		syntax.Method(public, "double", "Ratio", []*syntax.Node{syntax.Param("double", "a"), syntax.Param("int", "b")},
			syntax.Arrow(syntax.Bin("/", syntax.ID("a"), syntax.ID("b")))),
	)), Options{})

	value, err := result.Call("Div", runtime.IntegerValue{Val: 7}, runtime.IntegerValue{Val: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mustInt(t, value))

	value, err = result.Call("Ratio", runtime.FloatValue{Val: 7}, runtime.IntegerValue{Val: 2})
	require.NoError(t, err)
	assert.Equal(t, runtime.FloatValue{Val: 3.5}, value)
}

func TestStaticInitializersRunInDeclarationOrder(t *testing.T) {
	result := run(t, syntax.Unit(syntax.Class("SomeClass", nil,
		syntax.Field(syntax.Mods("public", "static"), "int", "A", syntax.Bin("+", syntax.ID("B"), syntax.Int(1))),
		syntax.Field(syntax.Mods("public", "static"), "int", "B", syntax.Int(2)),
	)), Options{})

	a, err := result.Interpreter.GetAttr(result.Class, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), mustInt(t, a))
	b, err := result.Interpreter.GetAttr(result.Class, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), mustInt(t, b))
}
