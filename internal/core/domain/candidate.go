package domain

// CandidateProfile is a read-only projection of a profile owned by the
// profiles subsystem. This core only reads published profiles to build the
// eligible pool for batch matching.
type CandidateProfile struct {
	CandidateID     string   `json:"candidateID"`
	FullName        string   `json:"fullName"`
	Headline        string   `json:"headline"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears"`
	Summary         string   `json:"summary"`
	IsPublished     bool     `json:"isPublished"`
}
