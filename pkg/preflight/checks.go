package preflight

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"auggie-mcp/pkg/exec"
)

// checkRuntime verifies the runtime starts and prints a version.
func (c *Checker) checkRuntime(ctx context.Context) (CheckResult, string) {
	result := CheckResult{Dependency: DependencyRuntime}

	res, err := c.probe(ctx, c.opts.RuntimeBinary, "-v")
	if err != nil {
		result.Message = probeFailureMessage("Node.js", c.opts.RuntimeBinary, err)
		result.Error = err
		return result, ""
	}

	version := strings.TrimSpace(res.Stdout)
	if !res.Succeeded() || version == "" {
		result.Message = fmt.Sprintf("%s -v exited %d without a version", c.opts.RuntimeBinary, res.ExitCode)
		result.Error = errors.New(result.Message)
		return result, ""
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Node.js %s is installed", version)
	return result, version
}

// checkRuntimeVersion verifies the runtime meets the minimum major version.
func (c *Checker) checkRuntimeVersion(version string) CheckResult {
	result := CheckResult{Dependency: DependencyRuntimeVersion}

	major, err := ParseMajor(version)
	if err != nil {
		result.Message = fmt.Sprintf("unable to parse Node version %q", version)
		result.Error = err
		return result
	}

	if major < c.opts.MinRuntimeMajor {
		result.Message = fmt.Sprintf("Node %d+ required, found %s", c.opts.MinRuntimeMajor, version)
		result.Error = errors.New(result.Message)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Node %s satisfies %d+", version, c.opts.MinRuntimeMajor)
	return result
}

// checkAgent verifies the agent CLI runs.
func (c *Checker) checkAgent(ctx context.Context) CheckResult {
	result := CheckResult{Dependency: DependencyAgent}

	res, err := c.probe(ctx, c.opts.AgentBinary, "--version")
	if err != nil {
		result.Message = probeFailureMessage("Auggie CLI", c.opts.AgentBinary, err)
		result.Error = err
		return result
	}
	if !res.Succeeded() {
		result.Message = fmt.Sprintf("%s --version exited %d", c.opts.AgentBinary, res.ExitCode)
		result.Error = errors.New(result.Message)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Auggie CLI %s is installed", strings.TrimSpace(res.Stdout))
	return result
}

func (c *Checker) probe(ctx context.Context, args ...string) (exec.Result, error) {
	c.logger.Debug("probing %s", strings.Join(args, " "))
	return c.executor.Run(ctx, args, &exec.Opts{Timeout: c.opts.Timeout})
}

func probeFailureMessage(name, binary string, err error) string {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Sprintf("%s (%s) is not installed or not on PATH", name, binary)
	case errors.Is(err, exec.ErrTimeout):
		return fmt.Sprintf("%s (%s) did not respond in time", name, binary)
	default:
		return fmt.Sprintf("%s (%s) could not be run: %v", name, binary, err)
	}
}

// ParseMajor extracts MAJOR from "vMAJOR.MINOR.PATCH".
func ParseMajor(version string) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	head, _, _ := strings.Cut(v, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return major, nil
}
