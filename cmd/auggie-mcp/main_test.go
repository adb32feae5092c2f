package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"auggie-mcp/pkg/config"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want mode
	}{
		{"no args serves http", nil, modeHTTP},
		{"stdio", []string{"stdio"}, modeStdio},
		{"unknown mode serves http", []string{"sse"}, modeHTTP},
		{"flag spelling serves http", []string{"--stdio"}, modeHTTP},
		{"trailing args are ignored", []string{"stdio", "x"}, modeStdio},
		{"stdio must come first", []string{"x", "stdio"}, modeHTTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseMode(tt.args); got != tt.want {
				t.Errorf("expected mode %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRunStdioListsTools(t *testing.T) {
	t.Setenv(config.ConfigEnvVar, "")
	t.Setenv(config.EnvPrefix+"JOURNAL", "")
	t.Setenv(config.EnvPrefix+"SECRETS_FILE", "")

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n")
	var out bytes.Buffer
	if err := run(context.Background(), modeStdio, in, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var resp struct {
		ID     json.RawMessage `json:"id"`
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	found := false
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("invalid response %q: %v", line, err)
		}
		if string(resp.ID) == "2" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("no tools/list response in %q", out.String())
	}
	if len(resp.Result.Tools) != 2 ||
		resp.Result.Tools[0].Name != "ask_question" ||
		resp.Result.Tools[1].Name != "implement" {
		t.Errorf("unexpected tools: %+v", resp.Result.Tools)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Setenv(config.ConfigEnvVar, "")
	t.Setenv(config.EnvPrefix+"HTTP_PATH", "mcp")

	err := run(context.Background(), modeStdio, strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Errorf("expected config error, got %v", err)
	}
}
