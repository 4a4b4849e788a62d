package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultManifestName)
	writeFile(t, path, contents)
	return path
}

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: sample
sources:
  - src
entry: Outer.Program
strict_defaults: true
parallelism: 2
defaults:
  int: 0
  System.DateTime: null
  decimal: 0.0
`)

	manifest, err := LoadManifest(filepath.Dir(path))
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "sample" {
		t.Fatalf("Name = %q, want sample", manifest.Name)
	}
	if manifest.Entry != "Outer.Program" {
		t.Fatalf("Entry = %q", manifest.Entry)
	}
	if manifest.Dir() != filepath.Dir(path) {
		t.Fatalf("Dir = %q, want %q", manifest.Dir(), filepath.Dir(path))
	}
	assert.Equal(t, []string{"src"}, manifest.Sources)
	assert.Equal(t, 2, manifest.Parallelism)

	policy, err := manifest.Policy()
	require.NoError(t, err)
	assert.Equal(t, []string{"System.DateTime", "decimal", "int"}, policy.Types())
	value, ok := policy.Lookup("System.Int32")
	require.True(t, ok)
	assert.Equal(t, int64(0), value)
	_, ok = policy.Lookup("bool")
	assert.False(t, ok, "strict_defaults must drop the built-in table")
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: sample
sources: [src]
targets: {}
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "targets") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
sources: [""]
git:
  url: https://example.com/repo.git
  tag: v1
  branch: main
parallelism: -1
defaults:
  int: [1, 2]
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	joined := strings.Join(verr.Issues, "\n")
	for _, want := range []string{
		"name must be provided",
		"sources[0]",
		"exactly one of rev, tag or branch",
		"parallelism",
		"defaults.int",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing issue %q in:\n%s", want, joined)
		}
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestLoadSourcesWalksDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "b.cs"), "class B {}")
	writeFile(t, filepath.Join(root, "src", "nested", "a.cs"), "class A {}")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, "src", ".hidden", "c.cs"), "class C {}")
	writeFile(t, filepath.Join(root, "extra.cs"), "class Extra {}")

	sources, err := LoadSources(root, []string{"src", "extra.cs", "src/b.cs"})
	require.NoError(t, err)

	rels := make([]string, 0, len(sources))
	for _, src := range sources {
		rels = append(rels, src.Rel)
	}
	assert.Equal(t, []string{"b.cs", "extra.cs", "nested/a.cs"}, rels)
	assert.Equal(t, "class A {}\n", string(sources[2].Code))

	_, err = LoadSources(root, []string{"missing"})
	require.Error(t, err)

	writeFile(t, filepath.Join(root, "empty", "readme.md"), "nothing")
	_, err = LoadSources(root, []string{"empty"})
	require.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	out := t.TempDir()
	path, err := WriteOutput(out, Source{Rel: "nested/Program.cs"}, "class Program:\n    pass\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "nested", "Program.py"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class Program:\n    pass\n", string(data))
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add("src/Program.cs"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "cs2py",
			Email: "cs2py@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestGitFetcherChecksOutRevision(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "src", "Program.cs"), "class Program {}")
	commit := initGitRepo(t, repoDir)

	fetcher := NewGitFetcher(t.TempDir(), nil)
	checkout, err := fetcher.Fetch(&GitSpec{URL: repoDir, Rev: commit, Dir: "src"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if checkout.Commit != commit {
		t.Fatalf("Commit = %q, want %q", checkout.Commit, commit)
	}
	sources, err := LoadSources("", []string{checkout.Dir})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "class Program {}\n", string(sources[0].Code))

	again, err := fetcher.Fetch(&GitSpec{URL: repoDir, Rev: commit, Dir: "src"})
	require.NoError(t, err)
	assert.Equal(t, checkout.Dir, again.Dir)
}

func TestGitRevisionFromSpec(t *testing.T) {
	rev, descriptor, err := gitRevisionFromSpec(&GitSpec{Tag: "v1.2"})
	require.NoError(t, err)
	assert.Equal(t, "refs/tags/v1.2", string(rev))
	assert.Equal(t, "v1.2", descriptor)

	_, _, err = gitRevisionFromSpec(&GitSpec{})
	require.Error(t, err)

	assert.Equal(t, "main@abc", gitPinnedVersion("main", "abc"))
	assert.Equal(t, "abc", gitPinnedVersion("abc", "abc"))
	assert.Equal(t, "https___example.com_x.git", sanitizePathSegment("https://example.com/x.git"))
}
