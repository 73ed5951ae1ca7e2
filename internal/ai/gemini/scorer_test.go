package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	"github.com/HireDeck/hiredeck_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testJob() *domain.JobPosting {
	return &domain.JobPosting{
		JobID:       "job-1",
		Title:       "Backend Engineer",
		Description: "Go services on Postgres",
	}
}

func testCandidate() *domain.CandidateProfile {
	return &domain.CandidateProfile{
		CandidateID:     "cand-1",
		FullName:        "Jordan Smith",
		Headline:        "Go developer",
		Skills:          []string{"Go", "PostgreSQL"},
		ExperienceYears: 6,
		Summary:         "Six years building backend services.",
	}
}

func TestScoreMatch_Success(t *testing.T) {
	gen := &stubGenerator{response: `{"score": 82, "strengths": ["Go", "SQL"], "gaps": ["no cloud experience"]}`}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.NoError(t, err)
	assert.Equal(t, "job-1", entry.JobID)
	assert.Equal(t, "cand-1", entry.CandidateID)
	assert.Equal(t, 82, entry.Score)
	assert.Equal(t, []string{"Go", "SQL"}, entry.Explanation.Strengths)
	assert.Equal(t, []string{"no cloud experience"}, entry.Explanation.Gaps)

	// The prompt carries both payloads with the placeholders resolved.
	assert.Contains(t, gen.prompt, "Backend Engineer")
	assert.Contains(t, gen.prompt, "Jordan Smith")
	assert.NotContains(t, gen.prompt, "{{JOB_JSON}}")
	assert.NotContains(t, gen.prompt, "{{CANDIDATE_JSON}}")
}

func TestScoreMatch_MarkdownFencedResponse(t *testing.T) {
	gen := &stubGenerator{response: "Here is the evaluation:\n```json\n{\"score\": 55, \"strengths\": [], \"gaps\": [\"junior profile\"]}\n```"}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.NoError(t, err)
	assert.Equal(t, 55, entry.Score)
	assert.Equal(t, []string{"junior profile"}, entry.Explanation.Gaps)
}

func TestScoreMatch_NormalizesAbsentLists(t *testing.T) {
	gen := &stubGenerator{response: `{"score": 10}`}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.NoError(t, err)
	assert.NotNil(t, entry.Explanation.Strengths)
	assert.NotNil(t, entry.Explanation.Gaps)
	assert.Empty(t, entry.Explanation.Strengths)
}

func TestScoreMatch_ScoreOutOfRange(t *testing.T) {
	for _, response := range []string{`{"score": 101}`, `{"score": -5}`} {
		gen := &stubGenerator{response: response}
		scorer := NewScorer(gen)

		entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidResponse)
		assert.Nil(t, entry)
	}
}

func TestScoreMatch_MissingScore(t *testing.T) {
	gen := &stubGenerator{response: `{"strengths": ["Go"], "gaps": []}`}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResponse)
	assert.Nil(t, entry)
}

func TestScoreMatch_NonJSONResponse(t *testing.T) {
	gen := &stubGenerator{response: "I cannot evaluate this candidate."}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidResponse)
	assert.Nil(t, entry)
}

func TestScoreMatch_GeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("rate limited")}
	scorer := NewScorer(gen)

	entry, err := scorer.ScoreMatch(context.Background(), testJob(), testCandidate())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrScoringUnavailable)
	assert.Nil(t, entry)
}

func TestScoreMatch_NilInputs(t *testing.T) {
	scorer := NewScorer(&stubGenerator{response: `{"score": 50}`})

	_, err := scorer.ScoreMatch(context.Background(), nil, testCandidate())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = scorer.ScoreMatch(context.Background(), testJob(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
