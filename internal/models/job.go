package models

import "time"

// JobStatus is the persisted publication state of a job posting.
type JobStatus string

const (
	Draft     JobStatus = "DRAFT"
	Published JobStatus = "PUBLISHED"
	Paused    JobStatus = "PAUSED"
	Inactive  JobStatus = "INACTIVE"
)

// JobPosting is the persisted job row. charged_at is nullable and written
// exactly once, at the first successful publish.
type JobPosting struct {
	JobID       string     `db:"job_id"`
	AccountID   string     `db:"account_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	TokenCost   int64      `db:"token_cost"`
	Status      JobStatus  `db:"status"`
	ChargedAt   *time.Time `db:"charged_at"` // Nullable
	AuditFields
}
