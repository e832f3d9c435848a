package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"spogitify/internal/shared"
)

// Commit identity used when the host has no git identity configured.
const (
	gitAuthorName  = "spogitify"
	gitAuthorEmail = "spogitify@localhost"
)

// GitStore implements [RevisionStore] on a local git repository driven
// through the git CLI.
//
// CurrentHead reads artifact contents from HEAD, never from the worktree,
// which makes leftovers from interrupted runs invisible to the diff.
type GitStore struct {
	dir    string
	remote string
}

// OpenGitStore opens (idempotently) a git repository at dir and configures
// the optional push remote.
//
// A fresh directory with a configured remote is cloned from it so the local
// history continues the remote's instead of diverging from a new root; an
// unreachable or invalid remote falls back to a local init. Existing
// repositories with a remote fast-forward from it on a best-effort basis.
func OpenGitStore(ctx context.Context, dir, remote string) (*GitStore, error) {
	g := &GitStore{dir: dir, remote: remote}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		if remote != "" {
			if err := cloneRepository(ctx, remote, dir); err == nil {
				return g, nil
			}
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
		if _, err := g.git(ctx, "init"); err != nil {
			return nil, fmt.Errorf("failed to initialize repository: %w", err)
		}
	}

	if remote != "" {
		if _, err := g.git(ctx, "remote", "set-url", "origin", remote); err != nil {
			if _, err := g.git(ctx, "remote", "add", "origin", remote); err != nil {
				return nil, fmt.Errorf("failed to configure remote: %w", err)
			}
		}
		// Best effort: an empty or unreachable remote must not block the run.
		g.git(ctx, "pull", "--ff-only", "origin", "HEAD")
	}

	return g, nil
}

// cloneRepository clones remote into dir, which must not yet exist as a repository.
func cloneRepository(ctx context.Context, remote, dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return fmt.Errorf("failed to create archive parent directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", remote, dir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Dir returns the archive worktree directory.
func (g *GitStore) Dir() string {
	return g.dir
}

// CurrentHead returns the artifact set of the latest committed revision.
// A repository with no commits yet yields an empty set.
func (g *GitStore) CurrentHead(ctx context.Context) (ArtifactSet, error) {
	if _, err := g.git(ctx, "rev-parse", "--verify", "HEAD"); err != nil {
		// Fresh archive with no revisions.
		return ArtifactSet{}, nil
	}

	out, err := g.git(ctx, "ls-tree", "-r", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to list head artifacts: %w", err)
	}

	head := ArtifactSet{}
	for _, path := range strings.Split(strings.TrimSpace(out), "\n") {
		if path == "" {
			continue
		}
		content, err := g.gitRaw(ctx, "show", "HEAD:"+path)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
		}
		head[path] = content
	}

	return head, nil
}

// Stage writes and deletes the given files in the worktree and adds the
// paths to the git index.
func (g *GitStore) Stage(ctx context.Context, files []StagedFile) error {
	if len(files) == 0 {
		return nil
	}

	args := []string{"add", "-A", "--"}
	for _, f := range files {
		target := filepath.Join(g.dir, filepath.FromSlash(f.Path))

		if f.Tombstone {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", f.Path, err)
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
			}
			if err := os.WriteFile(target, f.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.Path, err)
			}
		}

		args = append(args, f.Path)
	}

	if _, err := g.git(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// Commit creates one revision from the staged files and returns its hash.
func (g *GitStore) Commit(ctx context.Context, message string) (string, error) {
	_, err := g.git(ctx,
		"-c", "user.name="+gitAuthorName,
		"-c", "user.email="+gitAuthorEmail,
		"commit", "-m", message)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCommitFailed, err)
	}

	rev, err := g.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: commit created but unreadable: %v", shared.ErrCommitFailed, err)
	}
	return strings.TrimSpace(rev), nil
}

// Push publishes the current branch to the configured remote. A store
// without a remote pushes nowhere and succeeds.
func (g *GitStore) Push(ctx context.Context) error {
	if g.remote == "" {
		return nil
	}
	if _, err := g.git(ctx, "push", "-u", "origin", "HEAD"); err != nil {
		return fmt.Errorf("failed to push to remote: %w", err)
	}
	return nil
}

// git runs a git subcommand in the archive directory and returns its stdout as text.
func (g *GitStore) git(ctx context.Context, args ...string) (string, error) {
	out, err := g.gitRaw(ctx, args...)
	return string(out), err
}

// gitRaw runs a git subcommand and returns its raw stdout, preserving artifact bytes.
func (g *GitStore) gitRaw(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %v: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
