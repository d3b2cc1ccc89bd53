// Package constants provides shared constants used throughout the polemap codebase.
// This includes the fixed domain tolerances of the reconciliation engine, the
// standard mounting band table, and the file/CLI values that should be
// consistent across the application.
package constants

import "time"

// Unit constants define the exact conversion factors to feet.
const (
	// FeetPerMetre is the number of feet in one metre.
	FeetPerMetre = 1 / 0.3048

	// MetresPerFoot is the exact international foot.
	MetresPerFoot = 0.3048

	// InchesPerFoot is the number of inches in one foot.
	InchesPerFoot = 12.0
)

// Bucketing constants define the height join resolution
const (
	// BucketResolution is the width of a height bucket in feet. Fixed, not configurable.
	BucketResolution = 0.1
)

// Severity thresholds are fixed domain constants, not configurable per pole.
const (
	// GreenMaxDelta is the largest averaged delta (feet) still classified green.
	GreenMaxDelta = 0.5

	// AmberMaxDelta is the largest averaged delta (feet) still classified amber.
	AmberMaxDelta = 1.0
)

// Attachment-point synthesis tolerances, expressed in feet.
const (
	// ClusterTolerance is 0.05 m: the normal window for joining a wire to a cluster.
	ClusterTolerance = 0.05 * FeetPerMetre

	// StaggeredClusterTolerance is 0.1 m, used while a cluster holds exactly
	// one primary-phase wire (staggered primary construction).
	StaggeredClusterTolerance = 0.1 * FeetPerMetre

	// ClusterRoundingStep is one centimetre in feet.
	ClusterRoundingStep = 0.01 * FeetPerMetre

	// PointMatchTolerance is the height-only fallback window when pairing
	// attachment points across sources.
	PointMatchTolerance = 0.5
)

// Cross-arm constants.
const (
	// BandSnapWindow is the inclusive window around a standard band within
	// which a raw Source-B wire height snaps to the band.
	BandSnapWindow = 0.25

	// CrossArmMatchTolerance is the largest height difference for pairing arms.
	CrossArmMatchTolerance = 1.0

	// CrossArmExactTolerance separates exact (<) from close arm matches.
	CrossArmExactTolerance = 0.1
)

// StandardBands are the calibrated mounting heights (feet) at which
// cross-arms are commonly framed. Source-B wires are snapped to these.
var StandardBands = []float64{
	16.5, 18.0, 19.5, 21.0, 22.5, 24.0, 25.5, 27.0, 28.5,
	30.0, 31.5, 33.0, 34.5, 36.0, 37.5, 39.0, 40.5, 42.0,
	43.5, 45.0, 46.5, 48.0, 49.5, 51.0, 52.5, 54.0,
}

// Pairwise matcher constants.
const (
	// DetailTolerance is the default height tolerance of the fuzzy matcher.
	DetailTolerance = 0.5

	// CommunicationDetailTolerance is the looser window for communication
	// attachments, allowing for service-drop installation variance.
	CommunicationDetailTolerance = 1.0

	// InsulatorPriorityBonus favours insulator-to-insulator candidates.
	InsulatorPriorityBonus = 0.15

	// DirectPriorityBonus favours same-kind candidates for non-insulators.
	DirectPriorityBonus = 0.1

	// FallbackPriorityBonus applies to the legacy insulator-to-wire fallback.
	FallbackPriorityBonus = 0.0
)

// Guy matching constants.
const (
	// GuyNearMissMinInches is the smallest inch offset reported as a near miss.
	GuyNearMissMinInches = 1

	// GuyNearMissMaxInches is the largest inch offset reported as a near miss.
	GuyNearMissMaxInches = 3
)

// Validation constants.
const (
	// PoleHeightBuffer is how far (feet) above the pole top an attachment may
	// sit before it is flagged as implausible.
	PoleHeightBuffer = 5.0
)

// Resource limit constants.
const (
	// DefaultMemoSize is the default capacity of the per-run unit conversion cache.
	DefaultMemoSize = 4096

	// DefaultBatchWorkers is the default number of concurrent batch jobs.
	DefaultBatchWorkers = 4

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
