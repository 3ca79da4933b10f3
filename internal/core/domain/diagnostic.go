package domain

import "fmt"

// Severity ranks a diagnostic message.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFORMATION"
)

// DiagnosticCode is the closed set of validation findings. Each code carries a
// default severity and a message template; keeping the set closed gives the
// validator exhaustive handling instead of a stringly-typed taxonomy.
type DiagnosticCode string

const (
	CodeNoAccount                 DiagnosticCode = "NO_ACCOUNT"
	CodeSplitCycleDetected        DiagnosticCode = "SPLIT_CYCLE_DETECTED"
	CodeEntryNoContact            DiagnosticCode = "ENTRY_NO_CONTACT"
	CodeEntryNeedsCheck           DiagnosticCode = "ENTRY_NEEDS_CHECK"
	CodeIntermediaryNoSplit       DiagnosticCode = "INTERMEDIARY_NO_SPLIT"
	CodeSplitDraftHasAccount      DiagnosticCode = "SPLIT_DRAFT_HAS_ACCOUNT"
	CodeSplitAmountMismatch       DiagnosticCode = "SPLIT_AMOUNT_MISMATCH"
	CodeSavingsPlanMissingForSelf DiagnosticCode = "SAVINGSPLAN_MISSING_FOR_SELF"
	CodeSavingsPlanInvalidAccount DiagnosticCode = "SAVINGSPLAN_INVALID_ACCOUNT"
	CodeSecurityInvalidContact    DiagnosticCode = "SECURITY_INVALID_CONTACT"
	CodeSecurityMissingTxType     DiagnosticCode = "SECURITY_MISSING_TXTYPE"
	CodeSecurityMissingQuantity   DiagnosticCode = "SECURITY_MISSING_QUANTITY"
	CodeSecurityQuantityDividend  DiagnosticCode = "SECURITY_QUANTITY_NOT_ALLOWED_FOR_DIVIDEND"
	CodeSecurityFeeTaxExceeds     DiagnosticCode = "SECURITY_FEE_TAX_EXCEEDS_AMOUNT"
	CodeSavingsPlanGoalReached    DiagnosticCode = "SAVINGSPLAN_GOAL_REACHED_INFO"
	CodeSavingsPlanGoalExceeds    DiagnosticCode = "SAVINGSPLAN_GOAL_EXCEEDS"
	CodeSavingsPlanArchiveMism    DiagnosticCode = "SAVINGSPLAN_ARCHIVE_MISMATCH"
	CodeSavingsPlanDue            DiagnosticCode = "SAVINGSPLAN_DUE"
	CodeSavingsPlanArchived       DiagnosticCode = "SAVINGSPLAN_ARCHIVED_INFO"
)

type diagnosticSpec struct {
	severity Severity
	template string
}

var diagnosticSpecs = map[DiagnosticCode]diagnosticSpec{
	CodeNoAccount:                 {SeverityError, "no bank account detected for this draft"},
	CodeSplitCycleDetected:        {SeverityError, "split draft references form a cycle via draft %s"},
	CodeEntryNoContact:            {SeverityError, "no counter-party assigned to entry %q"},
	CodeEntryNeedsCheck:           {SeverityError, "entry %q still needs a manual check"},
	CodeIntermediaryNoSplit:       {SeverityError, "intermediary %q requires a linked split draft"},
	CodeSplitDraftHasAccount:      {SeverityError, "split draft %q must not have a detected account"},
	CodeSplitAmountMismatch:       {SeverityError, "split entries sum to %s but the parent entry amount is %s"},
	CodeSavingsPlanMissingForSelf: {SeverityWarning, "entry %q against the own contact has no savings plan"},
	CodeSavingsPlanInvalidAccount: {SeverityError, "savings plan assigned on savings account %q"},
	CodeSecurityInvalidContact:    {SeverityError, "security entry %q must use the account's bank contact"},
	CodeSecurityMissingTxType:     {SeverityError, "security entry %q has no transaction kind"},
	CodeSecurityMissingQuantity:   {SeverityError, "security entry %q needs a quantity greater than zero"},
	CodeSecurityQuantityDividend:  {SeverityError, "dividend entry %q must not carry a quantity"},
	CodeSecurityFeeTaxExceeds:     {SeverityError, "fee and tax of entry %q exceed its amount"},
	CodeSavingsPlanGoalReached:    {SeverityInfo, "savings plan %q reaches its goal with this draft"},
	CodeSavingsPlanGoalExceeds:    {SeverityWarning, "savings plan %q would exceed its goal by %s"},
	CodeSavingsPlanArchiveMism:    {SeverityError, "savings plan %q is flagged for archival but would not exactly reach its goal"},
	CodeSavingsPlanDue:            {SeverityInfo, "savings plan %q is due and not yet funded this month"},
	CodeSavingsPlanArchived:       {SeverityInfo, "savings plan %q reached its goal and was archived"},
}

// DefaultSeverity returns the severity a code carries unless overridden.
func (c DiagnosticCode) DefaultSeverity() Severity {
	if spec, ok := diagnosticSpecs[c]; ok {
		return spec.severity
	}
	return SeverityError
}

// Diagnostic is one validation finding. Diagnostics are ephemeral value
// objects; their only lasting effect is flipping an entry back to OPEN when an
// error severity accumulates against it.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Severity Severity       `json:"severity"`
	Text     string         `json:"text"`
	DraftID  string         `json:"draftID"`
	EntryID  *string        `json:"entryID,omitempty"`
}

// NewDiagnostic builds a diagnostic with the code's default severity.
func NewDiagnostic(code DiagnosticCode, draftID string, entryID *string, args ...any) Diagnostic {
	return NewDiagnosticWithSeverity(code, code.DefaultSeverity(), draftID, entryID, args...)
}

// NewDiagnosticWithSeverity builds a diagnostic with an explicit severity, for
// codes whose weight depends on context (e.g. a missing savings plan on an
// account that merely suggests one).
func NewDiagnosticWithSeverity(code DiagnosticCode, severity Severity, draftID string, entryID *string, args ...any) Diagnostic {
	text := string(code)
	if spec, ok := diagnosticSpecs[code]; ok {
		text = fmt.Sprintf(spec.template, args...)
	}
	return Diagnostic{
		Code:     code,
		Severity: severity,
		Text:     text,
		DraftID:  draftID,
		EntryID:  entryID,
	}
}

// IsError reports whether the diagnostic blocks booking.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}
