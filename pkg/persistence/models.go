package persistence

import (
	"time"

	"github.com/google/uuid"
)

// Outcome values stored in the journal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Invocation is one journaled tool call.
type Invocation struct {
	StartedAt    time.Time
	ExitCode     *int
	ID           string
	Tool         string
	Workspace    string
	Model        string
	Outcome      string
	ErrorKind    string
	ErrorText    string
	CommitSHA    string
	Duration     time.Duration
	FilesChanged int
	OutputTokens int
	DryRun       bool
	Committed    bool
}

// NewInvocationID generates a journal row id.
func NewInvocationID() string {
	return uuid.New().String()
}

// Stats aggregates journal rows per tool.
type Stats struct {
	Tool      string
	Calls     int
	Failures  int
	Commits   int
	AvgMillis float64
}
