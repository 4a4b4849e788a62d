package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Checkout is a git revision materialized on disk.
type Checkout struct {
	Dir     string
	Commit  string
	Version string
}

// GitFetcher clones repositories into a cache directory, one checkout per
// pinned revision.
type GitFetcher struct {
	CacheDir string
	Logger   *zap.Logger
}

func NewGitFetcher(cacheDir string, logger *zap.Logger) *GitFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitFetcher{CacheDir: cacheDir, Logger: logger}
}

// Fetch checks out spec and returns the directory holding its sources
// (spec.Dir inside the checkout).
func (g *GitFetcher) Fetch(spec *GitSpec) (*Checkout, error) {
	if g == nil || g.CacheDir == "" {
		return nil, fmt.Errorf("driver: git fetcher unavailable")
	}
	if spec == nil || strings.TrimSpace(spec.URL) == "" {
		return nil, fmt.Errorf("driver: git URL required")
	}
	baseDir := filepath.Join(g.CacheDir, "git", sanitizePathSegment(spec.URL))
	version, commit, err := ensureGitCheckout(baseDir, spec)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(baseDir, sanitizePathSegment(version))
	if spec.Dir != "" {
		dir = filepath.Join(dir, filepath.FromSlash(spec.Dir))
	}
	g.Logger.Debug("git checkout ready",
		zap.String("url", spec.URL),
		zap.String("commit", commit),
		zap.String("dir", dir))
	return &Checkout{Dir: dir, Commit: commit, Version: version}, nil
}

func ensureGitCheckout(baseDir string, spec *GitSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", fmt.Errorf("driver: %w", err)
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", fmt.Errorf("driver: %w", err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", fmt.Errorf("driver: %w", err)
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: spec.URL})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: git clone %s: %w", spec.URL, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: %w", err)
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func gitRevisionFromSpec(spec *GitSpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("driver: git sources require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
