// Package agent drives the Auggie CLI as an opaque subprocess.
package agent

import "time"

// Request is one agent invocation. It is built fresh per call.
type Request struct {
	// Instruction is the positional prompt handed to the agent.
	Instruction string

	// WorkspaceRoot is passed as --workspace-root and used as the working
	// directory when set.
	WorkspaceRoot string

	// Model selects an agent model (--model).
	Model string

	// RulesPath points at an additional rules file (--rules).
	RulesPath string

	// Quiet selects --quiet (final answer only) over --print.
	Quiet bool

	// Timeout bounds the run.
	Timeout time.Duration

	// Env is extra per-child environment, e.g. the sandbox cache dir.
	Env []string
}

// BuildCommand renders the agent argv for req.
func BuildCommand(binary string, req Request) []string {
	if binary == "" {
		binary = DefaultBinary
	}
	cmd := []string{binary}

	if req.Quiet {
		cmd = append(cmd, "--quiet")
	} else {
		cmd = append(cmd, "--print")
	}

	if req.WorkspaceRoot != "" {
		cmd = append(cmd, "--workspace-root", req.WorkspaceRoot)
	}
	if req.Model != "" {
		cmd = append(cmd, "--model", req.Model)
	}
	if req.RulesPath != "" {
		cmd = append(cmd, "--rules", req.RulesPath)
	}

	return append(cmd, req.Instruction)
}
