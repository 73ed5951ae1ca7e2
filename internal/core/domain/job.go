package domain

import "time"

// JobStatus is the publication state of a job posting. The set is closed;
// anything read from storage outside this set is data corruption.
type JobStatus string

const (
	Draft     JobStatus = "DRAFT"
	Published JobStatus = "PUBLISHED"
	Paused    JobStatus = "PAUSED"
	Inactive  JobStatus = "INACTIVE" // Terminal
)

// JobPosting represents a job offer on the marketplace. ChargedAt records
// whether the one-time publication charge has been collected; it is set at
// the first successful publish and never cleared, which is what keeps
// pause/resume cycles from charging twice.
type JobPosting struct {
	JobID       string     `json:"jobID"` // Primary key (UUID)
	AccountID   string     `json:"accountID"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TokenCost   int64      `json:"tokenCost"`
	Status      JobStatus  `json:"status"`
	ChargedAt   *time.Time `json:"chargedAt,omitempty"`
	AuditFields
}

// transitions is the explicit table of permitted status changes. Inactive
// has no outgoing edges.
var transitions = map[JobStatus][]JobStatus{
	Draft:     {Published, Inactive},
	Published: {Paused, Inactive},
	Paused:    {Published, Inactive},
	Inactive:  {},
}

// CanTransition reports whether moving from one status to another is
// permitted by the lifecycle table.
func CanTransition(from, to JobStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidJobStatus reports whether s is a member of the closed status set.
func IsValidJobStatus(s JobStatus) bool {
	switch s {
	case Draft, Published, Paused, Inactive:
		return true
	}
	return false
}

// NeedsPublicationCharge reports whether publishing this job must debit the
// token ledger. A job already charged (resume after pause, or a retried
// publish) never pays again, and zero-cost jobs publish for free.
func (j *JobPosting) NeedsPublicationCharge() bool {
	return j.ChargedAt == nil && j.TokenCost > 0
}

// PublishIdempotencyKey derives the ledger deduplication key for this job's
// one-time publication charge.
func (j *JobPosting) PublishIdempotencyKey() string {
	return j.JobID + ":publish"
}
