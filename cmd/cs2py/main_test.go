package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var counterSource = dedent.Dedent(`
	namespace Tools
	{
	    public class Counter
	    {
	        public int Count { get; set; } = 2;
	        public static int Step = 3;

	        public int Next()
	        {
	            Count = Count + Step;
	            return Count;
	        }
	    }
	}
`)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// runCLI executes the command line in an empty working directory so no
// manifest is picked up by accident.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	require.Equal(t, 0, code)
	assert.Equal(t, cliToolVersion+"\n", stdout)
}

func TestTranslatePrintsProgram(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Counter.cs")
	writeFile(t, src, counterSource)

	code, stdout, stderr := runCLI(t, "translate", src)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "class Tools:")
	assert.Contains(t, stdout, "class Counter:")
	assert.Contains(t, stdout, "def Next(self):")
}

func TestTranslateWritesOutputDirectory(t *testing.T) {
	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "Counter.cs"), counterSource)
	writeFile(t, filepath.Join(srcDir, "nested", "Empty.cs"), "class Empty { }\n")
	outDir := t.TempDir()

	code, stdout, stderr := runCLI(t, "translate", srcDir, "-o", outDir)
	require.Equal(t, 0, code, stderr)

	want := []string{
		filepath.Join(outDir, "Counter.py"),
		filepath.Join(outDir, "nested", "Empty.py"),
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", stdout)
	data, err := os.ReadFile(want[1])
	require.NoError(t, err)
	assert.Equal(t, "class Empty:\n    pass\n", string(data))
}

func TestRunCallsMethod(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Counter.cs")
	writeFile(t, src, counterSource)

	code, stdout, stderr := runCLI(t, "run", src)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "<Tools.Counter object>\n", stdout)

	code, stdout, stderr = runCLI(t, "run", src, "--call", "Next")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "5\n", stdout)
}

func TestRunEntryAndConsole(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Program.cs")
	writeFile(t, src, dedent.Dedent(`
		using System;

		class First { }

		class Program
		{
		    public void Main()
		    {
		        Console.WriteLine("hello");
		    }
		}
	`))

	code, stdout, stderr := runCLI(t, "run", src, "--entry", "Program", "--call", "Main")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "hello\n", stdout)

	code, _, stderr = runCLI(t, "run", src, "--entry", "Missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Missing")
}

func TestInspectRendersConstructTree(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Counter.cs")
	writeFile(t, src, counterSource)

	code, stdout, stderr := runCLI(t, "inspect", src)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "Counter.cs\n"), stdout)
	for _, want := range []string{
		"namespace Tools",
		"class Counter",
		"property Count: int [get, set] -> _Count_backing",
		"static field Step: int",
		"method Next()",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestStrictDefaultsFlag(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Holder.cs")
	writeFile(t, src, "class Holder { int value; }\n")

	code, _, stderr := runCLI(t, "translate", src)
	require.Equal(t, 0, code, stderr)

	code, _, stderr = runCLI(t, "--strict-defaults", "translate", src)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing default policy")
}

func TestManifestDrivesTranslate(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "src", "Counter.cs"), counterSource)
	writeFile(t, filepath.Join(project, "cs2py.yml"), dedent.Dedent(`
		name: counter
		sources: [src]
		output: build
	`))

	code, stdout, stderr := runCLI(t, "--config", project, "translate")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, filepath.Join(project, "build", "Counter.py")+"\n", stdout)
	assert.FileExists(t, filepath.Join(project, "build", "Counter.py"))
}

func TestManifestDiscoveredFromWorkingDirectory(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "src", "Counter.cs"), counterSource)
	writeFile(t, filepath.Join(project, "cs2py.yml"), "name: counter\nsources: [src]\nentry: Tools.Counter\n")
	nested := filepath.Join(project, "src")

	t.Chdir(nested)
	var stdout, stderr bytes.Buffer
	code := run([]string{"run", "--call", "Next"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "5\n", stdout.String())
}

func TestGitRequiresRef(t *testing.T) {
	code, _, stderr := runCLI(t, "--git", "https://example.com/repo.git", "translate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--git requires --ref")
}

func TestNoSources(t *testing.T) {
	code, _, stderr := runCLI(t, "translate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cs2py.yml not found")
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
	if _, err := worktree.Add("Counter.cs"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "cs2py", Email: "cs2py@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestRunFromGitRepository(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "Counter.cs"), counterSource)
	commit := initGitRepo(t, repoDir)

	code, stdout, stderr := runCLI(t,
		"--git", repoDir, "--ref", commit, "--cache-dir", t.TempDir(),
		"run", "Counter.cs", "--call", "Next")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "5\n", stdout)
}
