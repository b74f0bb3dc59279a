package revision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoGit_History(t *testing.T) {
	dir := historyRepo(t)
	q := NewGoGit(dir, GitOptions{})
	ctx := context.Background()

	assert.Contains(t, q.DiffContent(ctx, 1), "+def get_user_profile(user_id):")

	statuses := statusByPath(q.FileStatus(ctx, 1))
	assert.Equal(t, map[string]Status{"a.py": Changed, "b.py": Added, "old.txt": Deleted}, statuses)

	stats := statByPath(q.LineStats(ctx, 1))
	assert.Equal(t, 3, stats["a.py"].Additions)
	assert.Equal(t, 1, stats["b.py"].Additions)
	assert.Equal(t, 1, stats["old.txt"].Deletions)

	assert.Equal(t, []string{"Add profile lookup"}, q.CommitSubjects(ctx, 1))
	assert.Equal(t, []string{"Add profile lookup", "Initial commit"}, q.CommitSubjects(ctx, 5))

	cli := NewGit(dir, GitOptions{})
	assert.Equal(t, cli.Head(ctx), q.Head(ctx))
	assert.Equal(t, realPath(t, dir), realPath(t, q.Root(ctx)))
}

func TestGoGit_Degrades(t *testing.T) {
	dir := historyRepo(t)
	q := NewGoGit(dir, GitOptions{})
	ctx := context.Background()

	assert.Empty(t, q.DiffContent(ctx, 0))
	assert.Empty(t, q.DiffContent(ctx, 5))
	assert.Empty(t, q.FileStatus(ctx, 5))
	assert.Empty(t, q.CommitSubjects(ctx, 0))

	outside := NewGoGit(t.TempDir(), GitOptions{})
	assert.Empty(t, outside.DiffContent(ctx, 1))
	assert.Empty(t, outside.LineStats(ctx, 1))
	assert.Empty(t, outside.Head(ctx))
	assert.Empty(t, outside.Root(ctx))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 2, countLines("a\nb"))
	assert.Equal(t, 3, countLines("a\nb\nc\n"))
}
