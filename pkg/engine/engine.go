// Package engine wires the parser, translator and interpreter into the
// operations the command line exposes.
package engine

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sdi1982/CSharpToPython/pkg/driver"
	"github.com/sdi1982/CSharpToPython/pkg/hostlib"
	"github.com/sdi1982/CSharpToPython/pkg/interpreter"
	"github.com/sdi1982/CSharpToPython/pkg/parser"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

// Options configures the engine operations. Policy, Catalog and Logger are
// passed to the translator; Entry and Stdout to the interpreter.
type Options struct {
	Logger *zap.Logger
	// Policy is shared read-only by concurrent translations.
	Policy  *translator.DefaultPolicy
	Catalog hostlib.Catalog
	// Parallelism bounds TranslateAll. Zero selects GOMAXPROCS.
	Parallelism int

	Entry  string
	Stdout io.Writer
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) translatorOptions() translator.Options {
	return translator.Options{Logger: o.logger(), Defaults: o.Policy, Catalog: o.Catalog}
}

// Output is the translation of one source file.
type Output struct {
	Source driver.Source
	Unit   *translator.Unit
	Python string
}

// Translate parses and translates one compilation unit.
func Translate(code []byte, opts Options) (*translator.Unit, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return translateWith(p, "", code, opts)
}

func translateWith(p *parser.Parser, name string, code []byte, opts Options) (*translator.Unit, error) {
	root, err := p.ParseFile(name, code)
	if err != nil {
		return nil, err
	}
	return translator.Translate(root, opts.translatorOptions())
}

// ConvertAndRun translates C# source, evaluates the program and returns the
// instance of its entry class.
func ConvertAndRun(code string, opts Options) (*interpreter.Result, error) {
	unit, err := Translate([]byte(code), opts)
	if err != nil {
		return nil, err
	}
	return interpreter.Run(unit, interpreter.Options{
		Logger: opts.logger(),
		Stdout: opts.Stdout,
		Entry:  opts.Entry,
	})
}

// TranslateAll translates sources concurrently, at most opts.Parallelism at
// a time. Outputs keep the order of sources. The first failure cancels the
// remaining work and is returned.
func TranslateAll(ctx context.Context, sources []driver.Source, opts Options) ([]Output, error) {
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	log := opts.logger()
	outputs := make([]Output, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for idx := range sources {
		src := sources[idx]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := parser.New()
			if err != nil {
				return err
			}
			defer p.Close()

			unit, err := translateWith(p, src.Path, src.Code, opts)
			if err != nil {
				return fmt.Errorf("engine: %s: %w", src.Rel, err)
			}
			outputs[idx] = Output{Source: src, Unit: unit, Python: pyast.Render(unit.Module)}
			log.Debug("translated source",
				zap.String("file", src.Rel),
				zap.Strings("classes", unit.Classes))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
