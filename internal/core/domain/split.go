package domain

// SplitMode selects how the batch splitter partitions an import.
type SplitMode string

const (
	// SplitMonthly always groups movements by calendar month.
	SplitMonthly SplitMode = "MONTHLY"
	// SplitFixedSize always chunks movements into fixed-size groups.
	SplitFixedSize SplitMode = "FIXED_SIZE"
	// SplitMonthlyOrFixed groups by month only when the import exceeds the
	// monthly split threshold, otherwise chunks by size.
	SplitMonthlyOrFixed SplitMode = "MONTHLY_OR_FIXED"
)

// SplitConfig bounds the drafts produced by the batch splitter.
type SplitConfig struct {
	Mode                  SplitMode `json:"mode"`
	MaxEntriesPerDraft    int       `json:"maxEntriesPerDraft"`
	MonthlySplitThreshold int       `json:"monthlySplitThreshold"`
	MinEntriesPerDraft    int       `json:"minEntriesPerDraft"`
}

// MovementBatch is one labelled group of movements destined to become a draft.
type MovementBatch struct {
	Label     string     `json:"label"`
	Movements []Movement `json:"movements"`
}

// SplitReport records how a split decision played out, for observability.
type SplitReport struct {
	ConfiguredMode   SplitMode `json:"configuredMode"`
	EffectiveMonthly bool      `json:"effectiveMonthly"`
	DraftCount       int       `json:"draftCount"`
	MovementCount    int       `json:"movementCount"`
	MaxEntriesUsed   int       `json:"maxEntriesUsed"`
	LargestDraft     int       `json:"largestDraft"`
	Threshold        int       `json:"threshold"`
}
