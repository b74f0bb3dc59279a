package revision

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "HOME="+dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	if !Available() {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func commitAll(t *testing.T, dir, msg string) {
	t.Helper()
	gitCmd(t, dir, "add", "-A")
	gitCmd(t, dir, "commit", "-q", "-m", msg)
}

// historyRepo builds two commits: the second modifies a.py, adds b.py and
// deletes old.txt.
func historyRepo(t *testing.T) string {
	t.Helper()
	dir := initRepo(t)
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "old.txt", "bye\n")
	commitAll(t, dir, "Initial commit")

	writeFile(t, dir, "a.py", "x = 1\n\ndef get_user_profile(user_id):\n    return user_id\n")
	writeFile(t, dir, "b.py", "print('hi')\n")
	if err := os.Remove(filepath.Join(dir, "old.txt")); err != nil {
		t.Fatal(err)
	}
	commitAll(t, dir, "Add profile lookup")
	return dir
}

func realPath(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func statusByPath(entries []StatusEntry) map[string]Status {
	m := make(map[string]Status, len(entries))
	for _, e := range entries {
		m[e.Path] = e.Status
	}
	return m
}

func statByPath(stats []LineStat) map[string]LineStat {
	m := make(map[string]LineStat, len(stats))
	for _, s := range stats {
		m[s.Path] = s
	}
	return m
}
