package testkit

import (
	"strings"
	"testing"
)

// AssertArgv verifies a recorded call ran exactly want.
func AssertArgv(t *testing.T, call Call, want ...string) {
	t.Helper()
	if call.Joined() != strings.Join(want, " ") || len(call.Cmd) != len(want) {
		t.Errorf("Expected argv %q, got %q", want, call.Cmd)
	}
}

// AssertEnvContains verifies a recorded call carried entry in its per-child env.
func AssertEnvContains(t *testing.T, call Call, entry string) {
	t.Helper()
	for _, e := range call.Opts.Env {
		if e == entry {
			return
		}
	}
	t.Errorf("Expected env entry %q in %q", entry, call.Opts.Env)
}

// AssertEnvLacksKey verifies a recorded call did not set key in its per-child env.
func AssertEnvLacksKey(t *testing.T, call Call, key string) {
	t.Helper()
	for _, e := range call.Opts.Env {
		if strings.HasPrefix(e, key+"=") {
			t.Errorf("Expected no %s override, got %q", key, e)
		}
	}
}

// AssertNotRan verifies no recorded call starts with prefix.
func AssertNotRan(t *testing.T, f *FakeExecutor, prefix string) {
	t.Helper()
	if f.Ran(prefix) {
		t.Errorf("Expected %q not to run, calls: %v", prefix, f.Calls())
	}
}
