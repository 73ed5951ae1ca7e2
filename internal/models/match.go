package models

import "time"

// MatchEntry is the persisted scoring result row, unique per
// (job_id, candidate_id). Strengths and gaps are stored as text arrays.
type MatchEntry struct {
	JobID       string    `db:"job_id"`
	CandidateID string    `db:"candidate_id"`
	Score       int       `db:"score"`
	Strengths   []string  `db:"strengths"`
	Gaps        []string  `db:"gaps"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CandidateProfile is the read-only projection of the profiles subsystem's
// candidate row.
type CandidateProfile struct {
	CandidateID     string   `db:"candidate_id"`
	FullName        string   `db:"full_name"`
	Headline        string   `db:"headline"`
	Skills          []string `db:"skills"`
	ExperienceYears int      `db:"experience_years"`
	Summary         string   `db:"summary"`
	IsPublished     bool     `db:"is_published"`
}
