package model

type DecisionKind string

const (
	DecisionDefault      DecisionKind = "default"
	DecisionWarning      DecisionKind = "warning"
	DecisionAdhkar       DecisionKind = "adhkar"
	DecisionAnnouncement DecisionKind = "announcement"
)

// Decision is the single resolved display mode for one tick. It is a value,
// recomputed fresh every second; only the adhkar session carries state
// across ticks.
type Decision struct {
	Kind    DecisionKind `json:"kind"`
	Message string       `json:"message,omitempty"`
	Special bool         `json:"special,omitempty"`
	Images  *ImageCycle  `json:"images,omitempty"`
}

// ImageEntry is one image's slot in the merged rotation cycle.
type ImageEntry struct {
	Path            string `json:"path"`
	DurationSeconds int    `json:"duration_seconds"`
	AvoidJamaah     bool   `json:"avoid_jamaah"`
}

// ImageCycle is the merged schedule of every simultaneously-active image
// announcement: each entry plays for its duration, a fixed gap separates
// entries, then the cycle waits before repeating.
type ImageCycle struct {
	Entries            []ImageEntry `json:"entries"`
	GapSeconds         int          `json:"gap_seconds"`
	TotalActiveSeconds int          `json:"total_active_seconds"`
	CycleWaitSeconds   int          `json:"cycle_wait_seconds"`
	TotalCycleSeconds  int          `json:"total_cycle_seconds"`
}
