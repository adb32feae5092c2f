package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"auggie-mcp/pkg/config"
	"auggie-mcp/pkg/operations"
	"auggie-mcp/pkg/testkit"
)

func newTestProvider(t *testing.T) (*ToolProvider, *testkit.FakeExecutor) {
	t.Helper()
	fake := testkit.NewFakeExecutor().
		OnStdout("node -v", "v20.11.0\n").
		OnStdout("auggie --version", "0.5.2\n").
		OnStdout("auggie", "The answer.\n").
		OnStdout("git status", "")
	ws := t.TempDir()
	svc := operations.New(config.Default(), fake,
		operations.WithWorkingDir(func() (string, error) { return ws, nil }))
	return NewProvider(svc), fake
}

func TestProvider_ListOrderAndSchemas(t *testing.T) {
	p, _ := newTestProvider(t)
	defs := p.List()

	if len(defs) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(defs))
	}
	if defs[0].Name != ToolAskQuestion || defs[1].Name != ToolImplement {
		t.Errorf("Unexpected tool order: %s, %s", defs[0].Name, defs[1].Name)
	}

	for _, def := range defs {
		if def.InputSchema.Type != "object" {
			t.Errorf("%s: expected object schema, got %q", def.Name, def.InputSchema.Type)
		}
		if def.Description == "" {
			t.Errorf("%s: expected description", def.Name)
		}
		for _, req := range def.InputSchema.Required {
			if _, ok := def.InputSchema.Properties[req]; !ok {
				t.Errorf("%s: required %q missing from properties", def.Name, req)
			}
		}
	}

	impl := defs[1].InputSchema
	if impl.Properties["dry_run"].Default != true {
		t.Errorf("Expected dry_run default true, got %v", impl.Properties["dry_run"].Default)
	}
	if impl.Properties["timeout_sec"].Default != 300 {
		t.Errorf("Expected implement timeout default 300, got %v", impl.Properties["timeout_sec"].Default)
	}
	if impl.Properties["scope"].Items == nil || impl.Properties["scope"].Items.Type != "string" {
		t.Error("Expected scope to be an array of strings")
	}
	if defs[0].InputSchema.Properties["timeout_sec"].Default != 120 {
		t.Errorf("Expected ask timeout default 120, got %v", defs[0].InputSchema.Properties["timeout_sec"].Default)
	}
}

func TestProvider_DefinitionJSON(t *testing.T) {
	p, _ := newTestProvider(t)
	data, err := json.Marshal(p.List()[0])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"inputSchema"`, `"required":["question"]`, `"minimum":1`} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %s in %s", want, s)
		}
	}
}

func TestProvider_UnknownTool(t *testing.T) {
	p, _ := newTestProvider(t)
	if _, err := p.Get("rm_rf"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
}

func TestDecodeAskParams(t *testing.T) {
	p, err := decodeAskParams(map[string]any{
		"question":       "Where?",
		"workspace_root": "/repo",
		"model":          nil,
		"timeout_sec":    float64(30),
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Question != "Where?" || p.WorkspaceRoot != "/repo" || p.Model != "" {
		t.Errorf("Unexpected params: %+v", p)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", p.Timeout)
	}
}

func TestDecodeImplementParamsDefaults(t *testing.T) {
	p, err := decodeImplementParams(map[string]any{"prompt": "Add caching"})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !p.DryRun {
		t.Error("Expected dry_run to default to true")
	}
	if p.Timeout != 0 {
		t.Errorf("Expected zero timeout (service default), got %s", p.Timeout)
	}
	if p.Scope != nil {
		t.Errorf("Expected no scope, got %v", p.Scope)
	}
}

func TestDecodeImplementParamsFull(t *testing.T) {
	p, err := decodeImplementParams(map[string]any{
		"prompt":         "Add caching",
		"branch":         "feature/cache",
		"commit_message": "feat: cache",
		"scope":          []any{"pkg/cache", "README.md"},
		"dry_run":        false,
		"timeout_sec":    float64(600),
		"rules_path":     "/rules.md",
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.DryRun || p.Branch != "feature/cache" || p.CommitMessage != "feat: cache" || p.RulesPath != "/rules.md" {
		t.Errorf("Unexpected params: %+v", p)
	}
	if len(p.Scope) != 2 || p.Scope[1] != "README.md" {
		t.Errorf("Unexpected scope: %v", p.Scope)
	}
	if p.Timeout != 10*time.Minute {
		t.Errorf("Expected 10m timeout, got %s", p.Timeout)
	}
}

func TestDecodeRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing prompt", map[string]any{}},
		{"blank prompt", map[string]any{"prompt": "  "}},
		{"prompt not string", map[string]any{"prompt": 42.0}},
		{"scope not array", map[string]any{"prompt": "p", "scope": "a.go"}},
		{"scope element", map[string]any{"prompt": "p", "scope": []any{"a.go", 1.0}}},
		{"dry_run string", map[string]any{"prompt": "p", "dry_run": "false"}},
		{"fractional timeout", map[string]any{"prompt": "p", "timeout_sec": 1.5}},
		{"zero timeout", map[string]any{"prompt": "p", "timeout_sec": 0.0}},
		{"negative timeout", map[string]any{"prompt": "p", "timeout_sec": -3.0}},
		{"timeout string", map[string]any{"prompt": "p", "timeout_sec": "60"}},
		{"branch not string", map[string]any{"prompt": "p", "branch": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeImplementParams(tt.args)
			if err == nil {
				t.Fatal("Expected decode error")
			}
			if operations.Classify(err) != operations.KindInvalid {
				t.Errorf("Expected invalid kind, got %s (%v)", operations.Classify(err), err)
			}
		})
	}
}

func TestAskQuestionExec(t *testing.T) {
	p, fake := newTestProvider(t)
	tool, err := p.Get(ToolAskQuestion)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	res, err := tool.Exec(context.Background(), map[string]any{"question": "Why?"})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	var out operations.AskOutcome
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if out.Answer != "The answer." {
		t.Errorf("Unexpected answer %q", out.Answer)
	}
	if _, ok := res.Structured.(operations.AskOutcome); !ok {
		t.Errorf("Expected structured AskOutcome, got %T", res.Structured)
	}
	if len(fake.CallsTo("auggie")) != 2 {
		t.Errorf("Expected version probe and one run, got %v", fake.CallsTo("auggie"))
	}
}

func TestImplementExecDefaultsToDryRun(t *testing.T) {
	p, fake := newTestProvider(t)
	tool, _ := p.Get(ToolImplement)

	res, err := tool.Exec(context.Background(), map[string]any{"prompt": "Add caching"})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if !strings.Contains(res.Content, `"committed":false`) || !strings.Contains(res.Content, `"commit_sha":null`) {
		t.Errorf("Unexpected content: %s", res.Content)
	}
	for _, c := range fake.CallsTo("auggie") {
		if c.Cmd[1] == "--quiet" {
			testkit.AssertEnvContains(t, c, "AUGMENT_CACHE_DIR="+c.Opts.WorkDir+"/.augment/.mcp-temp")
		}
	}
}

func TestExecInvalidArgsSpawnNothing(t *testing.T) {
	p, fake := newTestProvider(t)
	tool, _ := p.Get(ToolImplement)

	_, err := tool.Exec(context.Background(), map[string]any{"prompt": "p", "timeout_sec": -1.0})
	if operations.Classify(err) != operations.KindInvalid {
		t.Fatalf("Expected invalid argument error, got %v", err)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("Expected no subprocesses, got %v", fake.Calls())
	}
}
