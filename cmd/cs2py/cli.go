package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sdi1982/CSharpToPython/pkg/driver"
	"github.com/sdi1982/CSharpToPython/pkg/engine"
	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

// cli carries the global flags and the state PersistentPreRunE derives from
// them.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath     string
	strictDefaults bool
	verbose        bool
	gitURL         string
	gitRef         string
	cacheDir       string

	logger   *zap.Logger
	manifest *driver.Manifest
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "cs2py",
		Short:             "Translate C# class declarations into Python",
		Long:              "cs2py translates C# namespaces and classes into an equivalent Python module and can execute the result.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to "+driver.DefaultManifestName+" (searched upward from the working directory when omitted)")
	flags.BoolVar(&c.strictDefaults, "strict-defaults", false, "require a configured default for every value type")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
	flags.StringVar(&c.gitURL, "git", "", "read sources from this git repository")
	flags.StringVar(&c.gitRef, "ref", "", "revision, tag or branch to check out with --git")
	flags.StringVar(&c.cacheDir, "cache-dir", "", "directory holding git checkouts")

	root.AddCommand(
		c.translateCommand(),
		c.runCommand(),
		c.inspectCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.logger = newLogger(c.stderr, c.verbose)
	if cmd.Name() == "version" {
		return nil
	}
	if c.gitURL != "" && strings.TrimSpace(c.gitRef) == "" {
		return fmt.Errorf("--git requires --ref")
	}

	if c.configPath != "" {
		manifest, err := driver.LoadManifest(c.configPath)
		if err != nil {
			return err
		}
		c.manifest = manifest
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	manifest, err := findManifest(cwd)
	switch {
	case errors.Is(err, errManifestNotFound):
		return nil
	case err != nil:
		return err
	}
	c.logger.Debug("using manifest", zap.String("path", manifest.Path))
	c.manifest = manifest
	return nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// findManifest walks from start towards the filesystem root looking for
// cs2py.yml.
func findManifest(start string) (*driver.Manifest, error) {
	dir := start
	for {
		candidate := filepath.Join(dir, driver.DefaultManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return driver.LoadManifest(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errManifestNotFound
		}
		dir = parent
	}
}

func (c *cli) engineOptions() (engine.Options, error) {
	opts := engine.Options{Logger: c.logger}
	switch {
	case c.manifest != nil:
		manifest := *c.manifest
		if c.strictDefaults {
			manifest.StrictDefaults = true
		}
		policy, err := manifest.Policy()
		if err != nil {
			return opts, err
		}
		opts.Policy = policy
		opts.Parallelism = manifest.Parallelism
		opts.Entry = manifest.Entry
	case c.strictDefaults:
		opts.Policy = translator.StrictDefaultPolicy()
	}
	return opts, nil
}

// sources resolves what a command operates on. Explicit arguments win, then
// the --git flags, then the manifest.
func (c *cli) sources(args []string) ([]driver.Source, error) {
	if c.gitURL != "" {
		return c.gitSources(&driver.GitSpec{URL: c.gitURL, Rev: c.gitRef}, args)
	}
	if len(args) > 0 {
		return driver.LoadSources("", args)
	}
	if c.manifest == nil {
		return nil, fmt.Errorf("no sources given and %w", errManifestNotFound)
	}
	if c.manifest.Git != nil {
		return c.gitSources(c.manifest.Git, c.manifest.Sources)
	}
	return driver.LoadSources(c.manifest.Dir(), c.manifest.Sources)
}

func (c *cli) gitSources(spec *driver.GitSpec, paths []string) ([]driver.Source, error) {
	cacheDir := c.cacheDir
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache directory: %w", err)
		}
		cacheDir = filepath.Join(base, "cs2py")
	}
	checkout, err := driver.NewGitFetcher(cacheDir, c.logger).Fetch(spec)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return driver.LoadSources(checkout.Dir, paths)
}

func (c *cli) translateAll(ctx context.Context, args []string) ([]engine.Output, error) {
	sources, err := c.sources(args)
	if err != nil {
		return nil, err
	}
	opts, err := c.engineOptions()
	if err != nil {
		return nil, err
	}
	return engine.TranslateAll(ctx, sources, opts)
}
