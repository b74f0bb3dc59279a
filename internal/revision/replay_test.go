package revision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const storedDiff = `diff --git a/a.py b/a.py
index 1111111..2222222 100644
--- a/a.py
+++ b/a.py
@@ -1 +1,4 @@
 x = 1
+
+def get_user_profile(user_id):
+    return user_id
diff --git a/b.py b/b.py
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/b.py
@@ -0,0 +1 @@
+print('hi')
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 4444444..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-bye
diff --git a/logo.png b/logo.png
new file mode 100644
index 0000000..5555555
Binary files /dev/null and b/logo.png differ
`

func TestReplay(t *testing.T) {
	q := NewReplay(storedDiff, []string{"Add profile lookup", "Initial commit"}, nil)
	ctx := context.Background()

	assert.Equal(t, storedDiff, q.DiffContent(ctx, 1))

	statuses := statusByPath(q.FileStatus(ctx, 1))
	assert.Equal(t, map[string]Status{
		"a.py":     Changed,
		"b.py":     Added,
		"old.txt":  Deleted,
		"logo.png": Added,
	}, statuses)

	stats := statByPath(q.LineStats(ctx, 1))
	assert.Equal(t, LineStat{Additions: 3, Path: "a.py"}, stats["a.py"])
	assert.Equal(t, LineStat{Additions: 1, Path: "b.py"}, stats["b.py"])
	assert.Equal(t, LineStat{Deletions: 1, Path: "old.txt"}, stats["old.txt"])
	_, hasBinary := stats["logo.png"]
	assert.False(t, hasBinary, "binary files carry no line stats")

	assert.Equal(t, []string{"Add profile lookup"}, q.CommitSubjects(ctx, 1))
	assert.Empty(t, q.Head(ctx))
	assert.Empty(t, q.Root(ctx))
}

func TestReplay_Empty(t *testing.T) {
	q := NewReplay("", nil, nil)
	ctx := context.Background()

	assert.Empty(t, q.DiffContent(ctx, 1))
	assert.Empty(t, q.FileStatus(ctx, 1))
	assert.Empty(t, q.LineStats(ctx, 1))
	assert.Empty(t, q.CommitSubjects(ctx, 1))
}

func TestReplay_NonPositive(t *testing.T) {
	q := NewReplay(storedDiff, []string{"x"}, nil)
	ctx := context.Background()

	assert.Empty(t, q.DiffContent(ctx, 0))
	assert.Empty(t, q.FileStatus(ctx, 0))
	assert.Empty(t, q.CommitSubjects(ctx, -1))
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "src/x.go", cleanPath("a/src/x.go"))
	assert.Equal(t, "src/x.go", cleanPath("b/src/x.go"))
	assert.Equal(t, "/dev/null", cleanPath("/dev/null"))
	assert.Equal(t, "plain", cleanPath("plain"))
}

func TestHeaderPaths(t *testing.T) {
	o, n := headerPaths("diff --git a/img/logo.png b/img/logo.png")
	assert.Equal(t, "a/img/logo.png", o)
	assert.Equal(t, "b/img/logo.png", n)

	o, n = headerPaths("index 123..456")
	assert.Empty(t, o)
	assert.Empty(t, n)
}
