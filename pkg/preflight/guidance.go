package preflight

import (
	"fmt"
	"strings"
)

// FormatCheckError formats a failed check result with actionable guidance.
func FormatCheckError(check CheckResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s: %s\n", check.Dependency, check.Message))
	sb.WriteString(fmt.Sprintf("    %s\n", getGuidance(check.Dependency)))

	return sb.String()
}

// FormatResults formats all preflight results for display.
func FormatResults(results *Results) string {
	var sb strings.Builder

	if results.Passed {
		sb.WriteString("Preflight checks passed\n")
	} else {
		sb.WriteString("Preflight checks failed\n")
	}
	for i := range results.Checks {
		check := results.Checks[i]
		if check.Passed {
			sb.WriteString(fmt.Sprintf("  [PASS] %s: %s\n", check.Dependency, check.Message))
		} else {
			sb.WriteString(FormatCheckError(check))
		}
	}

	return sb.String()
}

// getGuidance returns actionable guidance for fixing a failed check.
func getGuidance(dep Dependency) string {
	switch dep {
	case DependencyRuntime, DependencyRuntimeVersion:
		return "Install Node.js 18 or newer and make sure `node` is on PATH: https://nodejs.org/"

	case DependencyAgent:
		return "Install the Auggie CLI (npm install -g @augmentcode/auggie) and sign in, " +
			"or set AUGMENT_API_TOKEN"

	default:
		return "Check the dependency documentation for setup instructions."
	}
}
