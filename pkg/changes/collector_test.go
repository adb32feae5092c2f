package changes

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auggie-mcp/pkg/exec"
	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/testkit"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   []string
	}{
		{
			name:   "staged, untracked and noise",
			status: "M  src/a.py\n?? notes.txt\nnot a status line\n",
			want:   []string{"src/a.py", "notes.txt"},
		},
		{
			name:   "mixed entries",
			status: " M src/a.go\n?? notes.txt\nA  b.go\n",
			want:   []string{"src/a.go", "notes.txt", "b.go"},
		},
		{
			name:   "deleted and renamed",
			status: " D gone.go\nR  old.go -> new.go\n",
			want:   []string{"gone.go", "old.go -> new.go"},
		},
		{
			name:   "crlf line endings",
			status: " M a.go\r\n?? b.go\r\n",
			want:   []string{"a.go", "b.go"},
		},
		{
			name:   "unrecognized lines skipped",
			status: "UU conflict.go\n M ok.go\n!! ignored\n",
			want:   []string{"ok.go"},
		},
		{
			name:   "empty",
			status: "",
			want:   nil,
		},
	}

	c := NewCollector(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.parse(tt.status))
		})
	}
}

func TestCollect_WithChanges(t *testing.T) {
	fake := testkit.NewFakeExecutor().
		OnStdout("git status", " M src/a.go\n?? notes.txt\nA  b.go\n").
		OnStdout("git diff", "diff --git a/src/a.go b/src/a.go\n")
	c := NewCollector(git.NewCLI(fake), 0)

	set, err := c.Collect(context.Background(), "/ws")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.go", "notes.txt", "b.go"}, set.Paths)
	assert.Equal(t, "diff --git a/src/a.go b/src/a.go\n", set.Diff)
	assert.False(t, set.DiffOmitted)
}

func TestCollect_IgnoresSandboxDir(t *testing.T) {
	fake := testkit.NewFakeExecutor().
		OnStdout("git status", "?? .augment/\n M a.go\n?? .augment/.mcp-temp/settings.json\n").
		OnStdout("git diff", "diff --git a/a.go b/a.go\n")
	c := NewCollector(git.NewCLI(fake), 0)

	set, err := c.Collect(context.Background(), "/ws", ".augment/.mcp-temp")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, set.Paths)
}

func TestCollect_OnlySandboxDirIsEmpty(t *testing.T) {
	fake := testkit.NewFakeExecutor().OnStdout("git status", "?? .augment/\n")
	c := NewCollector(git.NewCLI(fake), 0)

	set, err := c.Collect(context.Background(), "/ws", ".augment/.mcp-temp")
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.Empty(t, set.Diff)
	assert.False(t, fake.Ran("git diff"))
}

func TestCollect_NoChangesSkipsDiff(t *testing.T) {
	fake := testkit.NewFakeExecutor().OnStdout("git status", "")
	c := NewCollector(git.NewCLI(fake), 0)

	set, err := c.Collect(context.Background(), "/ws")
	require.NoError(t, err)
	assert.True(t, set.Empty())
	assert.Empty(t, set.Diff)
	testkit.AssertNotRan(t, fake, "git diff")
}

func TestCollect_OverCapDiffIsEmpty(t *testing.T) {
	fake := testkit.NewFakeExecutor().
		OnStdout("git status", " M big.txt\n").
		OnStdout("git diff", strings.Repeat("x", DefaultMaxDiffChars+1))
	c := NewCollector(git.NewCLI(fake), 0)

	set, err := c.Collect(context.Background(), "/ws")
	require.NoError(t, err)
	assert.Equal(t, []string{"big.txt"}, set.Paths)
	assert.Equal(t, "", set.Diff)
	assert.True(t, set.DiffOmitted)
}

func TestCollect_CapCountsCharacters(t *testing.T) {
	// 10 runes, 30 bytes.
	diff := strings.Repeat("界", 10)
	fake := testkit.NewFakeExecutor().
		OnStdout("git status", " M wide.txt\n").
		OnStdout("git diff", diff)

	set, err := NewCollector(git.NewCLI(fake), 10).Collect(context.Background(), "/ws")
	require.NoError(t, err)
	assert.Equal(t, diff, set.Diff)

	set, err = NewCollector(git.NewCLI(fake), 9).Collect(context.Background(), "/ws")
	require.NoError(t, err)
	assert.Empty(t, set.Diff)
}

func TestCollect_StatusFailure(t *testing.T) {
	fake := testkit.NewFakeExecutor().OnExit("git status", 128, "fatal: not a git repository")
	c := NewCollector(git.NewCLI(fake), 0)

	_, err := c.Collect(context.Background(), "/ws")
	var subErr *git.SubprocessError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "status", subErr.Subcommand)
}

func TestCollect_RealRepository(t *testing.T) {
	dir := testkit.InitRepo(t)
	testkit.WriteFile(t, dir, "README.md", "# edited\n")
	testkit.WriteFile(t, dir, "added.txt", "new\n")

	set, err := NewCollector(git.NewCLI(exec.NewLocalExec()), 0).Collect(context.Background(), dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "added.txt"}, set.Paths)
	assert.Contains(t, set.Diff, "+# edited")

	// Collect never mutates the tree.
	assert.Contains(t, testkit.Git(t, dir, "status", "--porcelain"), "?? added.txt")
}
