package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout is fixed-width so lexical order matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when no invocation matches an id.
var ErrNotFound = errors.New("invocation not found")

// Record inserts inv, assigning an id and start time when missing.
func (j *Journal) Record(ctx context.Context, inv *Invocation) error {
	if inv.ID == "" {
		inv.ID = NewInvocationID()
	}
	if inv.StartedAt.IsZero() {
		inv.StartedAt = time.Now()
	}
	if inv.Outcome == "" {
		inv.Outcome = OutcomeSuccess
	}

	var exitCode sql.NullInt64
	if inv.ExitCode != nil {
		exitCode = sql.NullInt64{Int64: int64(*inv.ExitCode), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO invocations (
			id, tool, workspace, model, dry_run, outcome, error_kind, error_text,
			exit_code, committed, commit_sha, files_changed, output_tokens,
			duration_ms, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Tool, nullString(inv.Workspace), nullString(inv.Model), inv.DryRun,
		inv.Outcome, nullString(inv.ErrorKind), nullString(inv.ErrorText),
		exitCode, inv.Committed, nullString(inv.CommitSHA), inv.FilesChanged, inv.OutputTokens,
		inv.Duration.Milliseconds(), inv.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}

	j.logger.Debug("recorded %s invocation %s (%s)", inv.Tool, inv.ID, inv.Outcome)
	return nil
}

// Get returns a single invocation by id.
func (j *Journal) Get(ctx context.Context, id string) (*Invocation, error) {
	row := j.db.QueryRowContext(ctx, selectInvocation+` WHERE id = ?`, id)
	inv, err := scanInvocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

// Recent returns up to limit invocations, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Invocation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, selectInvocation+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invocations: %w", err)
	}
	return out, nil
}

// StatsByTool aggregates the journal per tool name.
func (j *Journal) StatsByTool(ctx context.Context) ([]Stats, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT tool,
		       COUNT(*),
		       SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		       SUM(committed),
		       AVG(duration_ms)
		FROM invocations
		GROUP BY tool
		ORDER BY tool`, OutcomeError)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.Tool, &s.Calls, &s.Failures, &s.Commits, &s.AvgMillis); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}
	return out, nil
}

const selectInvocation = `
	SELECT id, tool, workspace, model, dry_run, outcome, error_kind, error_text,
	       exit_code, committed, commit_sha, files_changed, output_tokens,
	       duration_ms, started_at
	FROM invocations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvocation(row rowScanner) (*Invocation, error) {
	var (
		inv                                        Invocation
		workspace, model, errKind, errText, commit sql.NullString
		exitCode                                   sql.NullInt64
		durationMs                                 int64
		startedAt                                  string
	)

	err := row.Scan(&inv.ID, &inv.Tool, &workspace, &model, &inv.DryRun, &inv.Outcome,
		&errKind, &errText, &exitCode, &inv.Committed, &commit, &inv.FilesChanged,
		&inv.OutputTokens, &durationMs, &startedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan invocation: %w", err)
	}

	inv.Workspace = workspace.String
	inv.Model = model.String
	inv.ErrorKind = errKind.String
	inv.ErrorText = errText.String
	inv.CommitSHA = commit.String
	inv.Duration = time.Duration(durationMs) * time.Millisecond
	if exitCode.Valid {
		code := int(exitCode.Int64)
		inv.ExitCode = &code
	}
	if ts, err := time.Parse(timeLayout, startedAt); err == nil {
		inv.StartedAt = ts
	}
	return &inv, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
