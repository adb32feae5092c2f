package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"auggie-mcp/pkg/logx"
	"auggie-mcp/pkg/persistence"
)

const maxCallsLimit = 500

// CallLog is the read side of the invocation journal.
type CallLog interface {
	Get(ctx context.Context, id string) (*persistence.Invocation, error)
	Recent(ctx context.Context, limit int) ([]*persistence.Invocation, error)
	StatsByTool(ctx context.Context) ([]persistence.Stats, error)
}

type callView struct {
	StartedAt    time.Time `json:"started_at"`
	ExitCode     *int      `json:"exit_code"`
	ID           string    `json:"id"`
	Tool         string    `json:"tool"`
	Workspace    string    `json:"workspace,omitempty"`
	Model        string    `json:"model,omitempty"`
	Outcome      string    `json:"outcome"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	Error        string    `json:"error,omitempty"`
	CommitSHA    string    `json:"commit_sha,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	FilesChanged int       `json:"files_changed"`
	OutputTokens int       `json:"output_tokens"`
	DryRun       bool      `json:"dry_run"`
	Committed    bool      `json:"committed"`
}

func newCallView(inv *persistence.Invocation) callView {
	return callView{
		StartedAt:    inv.StartedAt,
		ExitCode:     inv.ExitCode,
		ID:           inv.ID,
		Tool:         inv.Tool,
		Workspace:    inv.Workspace,
		Model:        inv.Model,
		Outcome:      inv.Outcome,
		ErrorKind:    inv.ErrorKind,
		Error:        inv.ErrorText,
		CommitSHA:    inv.CommitSHA,
		DurationMS:   inv.Duration.Milliseconds(),
		FilesChanged: inv.FilesChanged,
		OutputTokens: inv.OutputTokens,
		DryRun:       inv.DryRun,
		Committed:    inv.Committed,
	}
}

type statsView struct {
	Tool      string  `json:"tool"`
	Calls     int     `json:"calls"`
	Failures  int     `json:"failures"`
	Commits   int     `json:"commits"`
	AvgMillis float64 `json:"avg_ms"`
}

type callsResponse struct {
	Stats  []statsView `json:"stats"`
	Recent []callView  `json:"recent"`
}

type callsHandler struct {
	log    CallLog
	logger *logx.Logger
}

// list serves per-tool stats and the most recent calls; ?limit=N bounds
// the latter.
func (h *callsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxCallsLimit {
			http.Error(w, "limit must be an integer between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	stats, err := h.log.StatsByTool(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	recent, err := h.log.Recent(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := callsResponse{
		Stats:  make([]statsView, 0, len(stats)),
		Recent: make([]callView, 0, len(recent)),
	}
	for _, st := range stats {
		resp.Stats = append(resp.Stats, statsView(st))
	}
	for _, inv := range recent {
		resp.Recent = append(resp.Recent, newCallView(inv))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *callsHandler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.log.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "call not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCallView(inv))
}

func (h *callsHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to read journal: %v", err)
	http.Error(w, "failed to read journal", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
