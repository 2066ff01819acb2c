package session

import (
	"strconv"
	"strings"

	"github.com/abhisek/assessor/internal/scoring"
)

// NotApplicable is the scale token for questions that do not apply.
const NotApplicable = "N/A"

// IsNotApplicable reports whether tok is the not-applicable marker.
// Matching is case-insensitive and accepts the "NA" spelling.
func IsNotApplicable(tok string) bool {
	t := strings.TrimSpace(tok)
	return strings.EqualFold(t, NotApplicable) || strings.EqualFold(t, "NA")
}

// Finalize builds the submission payload from the answer map. Entries are
// ordered by catalog position; not-applicable answers are dropped and
// answers whose token is not an integer are listed in Payload.Skipped.
func (s *Session) Finalize(catalyst string) (scoring.Payload, error) {
	catalyst = strings.TrimSpace(catalyst)
	if catalyst == "" {
		return scoring.Payload{}, ErrNoCatalyst
	}

	p := scoring.Payload{
		Catalyst: catalyst,
		Answers:  []scoring.AnswerEntry{},
	}
	for _, q := range s.catalog.Questions() {
		tok, ok := s.answers[q.ID]
		if !ok || IsNotApplicable(tok) {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			p.Skipped = append(p.Skipped, q.ID)
			continue
		}
		p.Answers = append(p.Answers, scoring.AnswerEntry{
			QuestionID: q.ID,
			Score:      score,
		})
	}

	if len(p.Answers) == 0 {
		return p, ErrEmptySubmission
	}
	return p, nil
}
