package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sdi1982/CSharpToPython/pkg/driver"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConvertAndRunBaseline(t *testing.T) {
	result, err := ConvertAndRun(`public class SomeClass { }`, Options{})
	require.NoError(t, err)
	assert.Equal(t, "SomeClass", result.Class.Path)
}

func TestConvertAndRunProperties(t *testing.T) {
	code := dedent.Dedent(`
		namespace Outer
		{
		    public class SomeClass
		    {
		        private int _value;
		        public int Value
		        {
		            get { return _value; }
		            set { _value = value; }
		        }
		        public int Answer => 42;
		        public int Count { get; set; } = 5;
		        public static int Shared = 3;

		        public int Sum()
		        {
		            return Value + Answer + Count + Shared;
		        }
		    }
		}
	`)
	result, err := ConvertAndRun(code, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Outer.SomeClass", result.Class.Path)

	require.NoError(t, result.Set("Value", runtime.IntegerValue{Val: 10}))
	sum, err := result.Call("Sum")
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 60}, sum)

	err = result.Set("Answer", runtime.IntegerValue{Val: 1})
	require.ErrorIs(t, err, runtime.ErrNoSetterDefined)
}

func TestConvertAndRunUsingDirective(t *testing.T) {
	var out bytes.Buffer
	code := dedent.Dedent(`
		using System;

		public class Program
		{
		    public Random Rng = new Random();

		    public void Main()
		    {
		        Console.WriteLine(Math.Max(2, 7));
		    }
		}
	`)
	result, err := ConvertAndRun(code, Options{Stdout: &out})
	require.NoError(t, err)

	rng, err := result.Get("Rng")
	require.NoError(t, err)
	inst, ok := rng.(*runtime.InstanceValue)
	require.True(t, ok)
	assert.Equal(t, "System.Random", inst.Class.Path)

	_, err = result.Call("Main")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out.String())
}

func TestConvertAndRunReportsDiagnostics(t *testing.T) {
	_, err := ConvertAndRun(`class A { int x; int x; }`, Options{})
	require.ErrorIs(t, err, translator.ErrNameConflict)

	_, err = ConvertAndRun(`class A { int x; }`, Options{Policy: translator.StrictDefaultPolicy()})
	require.ErrorIs(t, err, translator.ErrMissingDefaultPolicy)

	_, err = ConvertAndRun(`struct S { }`, Options{})
	require.ErrorIs(t, err, translator.ErrUnsupportedConstruct)
}

func sources(n int) []driver.Source {
	out := make([]driver.Source, n)
	for i := range out {
		name := fmt.Sprintf("C%d", i)
		out[i] = driver.Source{
			Path: name + ".cs",
			Rel:  name + ".cs",
			Code: []byte(fmt.Sprintf("class %s { int Id() { return %d; } }", name, i)),
		}
	}
	return out
}

func TestTranslateAllKeepsOrder(t *testing.T) {
	outputs, err := TranslateAll(context.Background(), sources(12), Options{Parallelism: 3})
	require.NoError(t, err)
	require.Len(t, outputs, 12)
	for i, out := range outputs {
		want := fmt.Sprintf("C%d", i)
		assert.Equal(t, []string{want}, out.Unit.Classes)
		assert.True(t, strings.HasPrefix(out.Python, "class "+want+":"), out.Python)
	}
}

func TestTranslateAllReturnsFirstFailure(t *testing.T) {
	srcs := sources(6)
	srcs[3].Code = []byte("class Broken { void M() { for (;;) { } } }")
	_, err := TranslateAll(context.Background(), srcs, Options{Parallelism: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, translator.ErrUnsupportedConstruct))
	assert.Contains(t, err.Error(), "C3.cs")
}

func TestTranslateAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TranslateAll(ctx, sources(4), Options{})
	require.ErrorIs(t, err, context.Canceled)
}
