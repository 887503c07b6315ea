package directory

// Worker is one entry of the worker directory: the roster the sessions'
// identity fields resolve against.
type Worker struct {
	RecordID  string
	NumericID *int
	Name      string

	// ExcludeBreakDeduction marks workers whose daily figures skip the
	// standard break deduction (e.g. operators paid per machine hour).
	ExcludeBreakDeduction bool
}

// PolicySource names which identity field won the break-policy resolution.
type PolicySource string

const (
	SourceRecordID PolicySource = "recordId"
	SourceUserID   PolicySource = "userId"
	SourceUserName PolicySource = "userName"
	SourceDefault  PolicySource = "default"
)

// BreakPolicyResult is the outcome of resolving one identity. Resolution
// always terminates in one of the four sources; ambiguous name matches fall
// back to SourceDefault with the deduction applied.
type BreakPolicyResult struct {
	ExcludeBreakDeduction bool
	Source                PolicySource
}
