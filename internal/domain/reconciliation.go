package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchType records which rule produced a match
type MatchType string

const (
	MatchExactID            MatchType = "EXACT_ID"
	MatchValueDateTolerance MatchType = "VALUE_DATE_TOLERANCE"
	MatchManual             MatchType = "MANUAL"
)

// ReconciliationMatch is an append-only audit record binding one entry to one receivable.
// AmountDelta is entry minus receivable; DateDelta is entry date minus due date in days.
type ReconciliationMatch struct {
	ID           string          `json:"id"`
	RunID        string          `json:"run_id,omitempty"`
	EntryID      string          `json:"entry_id"`
	ReceivableID string          `json:"receivable_id"`
	MatchType    MatchType       `json:"match_type"`
	Confidence   decimal.Decimal `json:"confidence"`
	AmountDelta  decimal.Decimal `json:"amount_delta"`
	DateDelta    int             `json:"date_delta"`
	OperatorID   string          `json:"operator_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MatchCommit is the unit of atomic settlement: the match is recorded and both sides
// flipped only if the entry and receivable are still at the given versions.
type MatchCommit struct {
	Match             ReconciliationMatch
	EntryVersion      int64
	ReceivableVersion int64
	AllowedStatuses   []ReceivableStatus
}

// RunStatus represents the status of a reconciliation run
type RunStatus string

const (
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunCancelled RunStatus = "CANCELLED"
)

// PendingReason explains why an entry was left for manual resolution
type PendingReason string

const (
	PendingNoCandidate  PendingReason = "NO_CANDIDATE"
	PendingAmbiguous    PendingReason = "AMBIGUOUS"
	PendingDebitEntry   PendingReason = "DEBIT_ENTRY"
	PendingNotProcessed PendingReason = "NOT_PROCESSED"
)

type PendingEntry struct {
	EntryID string        `json:"entry_id"`
	Reason  PendingReason `json:"reason"`
}

type EntryFailure struct {
	EntryID string `json:"entry_id"`
	Reason  string `json:"reason"`
}

// ReconciliationRun summarizes one matcher execution over an account and period.
// TotalEntries always equals AutoMatchedCount + PendingCount + FailedCount.
type ReconciliationRun struct {
	ID               string                `json:"id"`
	AccountID        string                `json:"account_id"`
	Period           Period                `json:"period"`
	Status           RunStatus             `json:"status"`
	TotalEntries     int                   `json:"total_entries"`
	AutoMatchedCount int                   `json:"auto_matched_count"`
	PendingCount     int                   `json:"pending_count"`
	FailedCount      int                   `json:"failed_count"`
	StartedAt        time.Time             `json:"started_at"`
	FinishedAt       *time.Time            `json:"finished_at,omitempty"`
	Matches          []ReconciliationMatch `json:"matches"`
	Pending          []PendingEntry        `json:"pending"`
	Failures         []EntryFailure        `json:"failures"`
}
