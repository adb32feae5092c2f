// Package changes reports what an agent run changed in a working tree.
package changes

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"auggie-mcp/pkg/git"
	"auggie-mcp/pkg/logx"
)

// DefaultMaxDiffChars is the largest diff reported inline. Larger diffs
// are omitted entirely rather than truncated.
const DefaultMaxDiffChars = 200_000

// statusLine matches one `git status --porcelain` entry and captures the path.
var statusLine = regexp.MustCompile(`^\s*[AMDR?]{1,2}\s+(.*)$`)

// Set is the observed change set of one run.
type Set struct {
	// Paths lists changed paths in status output order.
	Paths []string
	// Diff is the working-tree diff, or "" when Paths is empty or the diff
	// exceeded the cap.
	Diff string
	// DiffOmitted is set when a non-empty diff was dropped for size.
	DiffOmitted bool
}

// Empty reports whether no paths changed.
func (s Set) Empty() bool {
	return len(s.Paths) == 0
}

// Collector reads status and diff through a git runner. It never mutates
// the tree.
type Collector struct {
	git          git.Runner
	maxDiffChars int
	logger       *logx.Logger
}

// NewCollector creates a collector. maxDiffChars <= 0 selects the default.
func NewCollector(runner git.Runner, maxDiffChars int) *Collector {
	if maxDiffChars <= 0 {
		maxDiffChars = DefaultMaxDiffChars
	}
	return &Collector{
		git:          runner,
		maxDiffChars: maxDiffChars,
		logger:       logx.NewLogger("changes"),
	}
}

// Collect returns the change set of dir. Entries for an ignored path, its
// parents, or anything below it are dropped; the dry-run sandbox directory
// is passed here so its own settings file never counts as a change.
func (c *Collector) Collect(ctx context.Context, dir string, ignore ...string) (Set, error) {
	status, err := git.Status(ctx, c.git, dir)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read status: %w", err)
	}

	set := Set{Paths: filterIgnored(c.parse(status), ignore)}
	if set.Empty() {
		return set, nil
	}

	diff, err := git.Diff(ctx, c.git, dir)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read diff: %w", err)
	}

	if n := utf8.RuneCountInString(diff); n > c.maxDiffChars {
		c.logger.Info("diff omitted: %d characters exceeds limit of %d", n, c.maxDiffChars)
		set.DiffOmitted = true
		return set, nil
	}
	set.Diff = diff
	return set, nil
}

// parse extracts changed paths from porcelain status output. Lines that
// do not look like status entries are skipped.
func (c *Collector) parse(status string) []string {
	var paths []string
	for _, line := range strings.Split(status, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := statusLine.FindStringSubmatch(line)
		if m == nil {
			c.logger.Debug("skipping unrecognized status line %q", line)
			continue
		}
		paths = append(paths, m[1])
	}
	return paths
}

func filterIgnored(paths, ignore []string) []string {
	if len(ignore) == 0 {
		return paths
	}
	kept := paths[:0]
	for _, p := range paths {
		if !isIgnored(p, ignore) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func isIgnored(path string, ignore []string) bool {
	p := strings.TrimSuffix(strings.Trim(path, `"`), "/")
	for _, ig := range ignore {
		ig = strings.TrimSuffix(filepath.ToSlash(ig), "/")
		if ig == "" {
			continue
		}
		if p == ig || strings.HasPrefix(p, ig+"/") || strings.HasPrefix(ig, p+"/") {
			return true
		}
	}
	return false
}
