package session

import (
	"context"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	git "github.com/go-git/go-git/v5"
)

// detectProject names the project for a working tree. It prefers the git
// remote origin name (stable across worktrees and renames), falling back to
// the directory basename.
func detectProject(cwd string) string {
	if cwd == "" {
		return "_unknown"
	}
	cwd = filepath.Clean(cwd)

	if name := gitRemoteProject(cwd); name != "" {
		return name
	}

	name := filepath.Base(cwd)
	if name == "" || name == "." || name == "/" {
		return "_unknown"
	}
	return name
}

// gitRemoteProject reads the origin URL with the git CLI, then with go-git
// when the binary is unavailable. Returns "" on any failure.
func gitRemoteProject(cwd string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err == nil {
		return repoNameFromURL(strings.TrimSpace(string(out)))
	}
	var execErr *exec.Error
	if !errors.As(err, &execErr) {
		return ""
	}
	return goGitRemoteProject(cwd)
}

func goGitRemoteProject(cwd string) string {
	repo, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return repoNameFromURL(urls[0])
}

// repoNameFromURL extracts the repository name from a git remote URL.
// Handles SSH (SCP-style), HTTPS, file://, and bare path formats.
// Returns "" on any parse failure.
func repoNameFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	var path string

	// SCP-style: git@host:path (no :// but has :)
	if !strings.Contains(rawURL, "://") && strings.Contains(rawURL, ":") {
		idx := strings.Index(rawURL, ":")
		path = rawURL[idx+1:]
	} else {
		u, err := url.Parse(rawURL)
		if err != nil {
			return ""
		}
		path = u.Path
	}

	if path == "" {
		return ""
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return name
}
