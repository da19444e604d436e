// Package mailingest holds the result contract, inbound message model and
// ports of the email ingest pipeline.
package mailingest

type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

const (
	ReasonDuplicate        = "duplicate"
	ReasonSenderNotAllowed = "sender_not_allowed"
	ReasonParseError       = "parse_error"
	ReasonPersistenceError = "persistence_error"
	ReasonFetchError       = "fetch_error"
)

type Action string

const (
	ActionCreateTicket Action = "create_ticket"
	ActionAddComment   Action = "add_comment"
)

// Detail reports the outcome for one message.
type Detail struct {
	UID      uint32 `json:"uid"`
	Status   Status `json:"status"`
	TicketID *uint  `json:"ticket_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
	Action   Action `json:"action,omitempty"`
}

// RunResult summarises one ingest run.
type RunResult struct {
	Checked   int      `json:"checked"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Details   []Detail `json:"details"`
	Disabled  bool     `json:"disabled,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty"`
}

func NewRunResult(dryRun bool) *RunResult {
	return &RunResult{Details: []Detail{}, DryRun: dryRun}
}

// DisabledResult is returned when ingest is not configured.
func DisabledResult() *RunResult {
	return &RunResult{Details: []Detail{}, Disabled: true}
}

// Record appends a detail and bumps the matching counter.
func (r *RunResult) Record(d Detail) {
	switch d.Status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Details = append(r.Details, d)
}
