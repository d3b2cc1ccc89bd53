// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

import "github.com/agentstation/polemap/pkg/attachment"

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: completed batch jobs.
	Success = "✓"

	// Error represents failures.
	// Used for: failed batch jobs, unreadable documents.
	Error = "✗"

	// Warning represents non-critical issues.
	// Used for: runs that completed with data-quality warnings.
	Warning = "!"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)

// Severity markers for the bucketed view.
const (
	Green = "●"
	Amber = "◐"
	Red   = "○"
	Grey  = "·"
)

// ForSeverity returns the marker of a bucket severity.
func ForSeverity(s attachment.Severity) string {
	switch s {
	case attachment.SeverityGreen:
		return Green
	case attachment.SeverityAmber:
		return Amber
	case attachment.SeverityRed:
		return Red
	case attachment.SeverityGrey:
		return Grey
	default:
		return Unknown
	}
}
