// Package sandbox writes the read-only agent policy used by dry runs.
package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDir is the sandbox location relative to the workspace root.
	DefaultDir = ".augment/.mcp-temp"

	// SettingsFile is the policy file name inside the sandbox directory.
	SettingsFile = "settings.json"

	// CacheDirEnv points the agent at the sandbox directory.
	CacheDirEnv = "AUGMENT_CACHE_DIR"

	// ignoreFile keeps the sandbox out of git status and add -A, including
	// when the workspace is a subdirectory of the repository.
	ignoreFile    = ".gitignore"
	ignoreContent = "*\n"
)

// DeniedTools are the agent capabilities that can mutate the workspace
// or launch processes.
var DeniedTools = []string{
	"save-file",
	"str-replace-editor",
	"remove-files",
	"launch-process",
}

// Permission is the policy applied to one tool.
type Permission struct {
	Type string `json:"type"`
}

// ToolPermission binds a permission to a tool name.
type ToolPermission struct {
	ToolName   string     `json:"tool-name"`
	Permission Permission `json:"permission"`
}

// Settings is the agent settings document.
type Settings struct {
	ToolPermissions []ToolPermission `json:"tool-permissions"`
}

// ReadOnlySettings returns a policy denying every entry of DeniedTools.
func ReadOnlySettings() Settings {
	perms := make([]ToolPermission, 0, len(DeniedTools))
	for _, name := range DeniedTools {
		perms = append(perms, ToolPermission{ToolName: name, Permission: Permission{Type: "deny"}})
	}
	return Settings{ToolPermissions: perms}
}

// Dir returns the sandbox directory for a workspace.
func Dir(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, filepath.FromSlash(DefaultDir))
}

// Build creates dir if needed and writes the read-only settings into it,
// together with a .gitignore that hides the whole directory from git. The
// directory is left in place after the run.
func Build(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("sandbox directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sandbox directory: %w", err)
	}

	data, err := json.Marshal(ReadOnlySettings())
	if err != nil {
		return "", fmt.Errorf("failed to marshal sandbox settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ignoreFile), []byte(ignoreContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to write sandbox ignore file: %w", err)
	}

	path := filepath.Join(dir, SettingsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write sandbox settings: %w", err)
	}
	return path, nil
}

// Env returns the per-child environment entries that select dir as the
// agent's settings location. The server's own environment is never changed.
func Env(dir string) []string {
	return EnvWithKey(CacheDirEnv, dir)
}

// EnvWithKey is Env with a configurable variable name.
func EnvWithKey(key, dir string) []string {
	if key == "" {
		key = CacheDirEnv
	}
	return []string{key + "=" + dir}
}
