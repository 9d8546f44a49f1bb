package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitSourcePrefix marks a program stored in a remote repository:
// git+<url>@<rev>:<path>.
const GitSourcePrefix = "git+"

// Source is a program text plus where it came from.
type Source struct {
	Name     string
	Text     string
	Revision string // commit hash when loaded from git
}

// GitRef addresses a file at a revision of a repository.
type GitRef struct {
	URL  string
	Rev  string
	Path string
}

func (r GitRef) String() string {
	return fmt.Sprintf("%s%s@%s:%s", GitSourcePrefix, r.URL, r.Rev, r.Path)
}

// LoadSource resolves target the way the CLI does: git+ references are
// fetched, plain paths are read from disk, and plain paths with rev set are
// read from that revision of the enclosing repository.
func LoadSource(target, rev string) (*Source, error) {
	if strings.HasPrefix(target, GitSourcePrefix) {
		if rev != "" {
			return nil, fmt.Errorf("source: --rev cannot be combined with %s", target)
		}
		ref, err := ParseGitSource(target)
		if err != nil {
			return nil, err
		}
		return LoadGitRemote(ref)
	}
	if rev != "" {
		return LoadGitFile(target, rev)
	}
	return LoadFile(target)
}

// LoadFile reads a program from disk.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return &Source{Name: path, Text: string(data)}, nil
}

// ParseGitSource splits git+<url>@<rev>:<path>. The last '@' ends the URL so
// scp-style URLs such as git@host:repo work.
func ParseGitSource(ref string) (*GitRef, error) {
	if !strings.HasPrefix(ref, GitSourcePrefix) {
		return nil, fmt.Errorf("source: %q is not a %s reference", ref, GitSourcePrefix)
	}
	body := strings.TrimPrefix(ref, GitSourcePrefix)
	at := strings.LastIndex(body, "@")
	if at <= 0 {
		return nil, fmt.Errorf("source: %q: expected %s<url>@<rev>:<path>", ref, GitSourcePrefix)
	}
	url, rest := body[:at], body[at+1:]
	rev, path, ok := strings.Cut(rest, ":")
	if !ok || strings.TrimSpace(rev) == "" || strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("source: %q: expected %s<url>@<rev>:<path>", ref, GitSourcePrefix)
	}
	return &GitRef{URL: url, Rev: strings.TrimSpace(rev), Path: strings.TrimPrefix(strings.TrimSpace(path), "/")}, nil
}

// LoadGitFile reads path as it was at rev in the repository containing it.
// The working tree copy is ignored; the file only needs to exist at rev.
func LoadGitFile(path, rev string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	dir := resolveSymlinks(filepath.Dir(abs))
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("source: open repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	root := resolveSymlinks(worktree.Filesystem.Root())
	rel, err := filepath.Rel(root, filepath.Join(dir, filepath.Base(abs)))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("source: %s is outside repository %s", path, root)
	}

	text, hash, err := readAtRevision(repo, rev, filepath.ToSlash(rel))
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return &Source{Name: fmt.Sprintf("%s@%s", path, rev), Text: text, Revision: hash}, nil
}

// LoadGitRemote clones ref.URL into memory and reads ref.Path at ref.Rev.
func LoadGitRemote(ref *GitRef) (*Source, error) {
	if ref == nil {
		return nil, errors.New("source: nil git reference")
	}
	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: ref.URL})
	if err != nil {
		return nil, fmt.Errorf("source: git clone %s: %w", ref.URL, err)
	}
	text, hash, err := readAtRevision(repo, ref.Rev, ref.Path)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", ref, err)
	}
	return &Source{Name: ref.String(), Text: text, Revision: hash}, nil
}

func readAtRevision(repo *git.Repository, rev, path string) (string, string, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", "", fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", "", fmt.Errorf("load commit %s: %w", hash, err)
	}
	file, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", "", fmt.Errorf("%s not present at %s", path, rev)
		}
		return "", "", fmt.Errorf("read %s at %s: %w", path, rev, err)
	}
	text, err := file.Contents()
	if err != nil {
		return "", "", fmt.Errorf("read %s at %s: %w", path, rev, err)
	}
	return text, hash.String(), nil
}

func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
