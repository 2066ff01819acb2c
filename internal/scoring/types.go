package scoring

import (
	"strings"

	"github.com/tidwall/gjson"
)

// AnswerEntry is one scored answer in a submission.
type AnswerEntry struct {
	QuestionID string  `json:"question_id"`
	Score      int     `json:"score"`
	Notes      *string `json:"notes"`
}

// Payload is the body sent to the scoring endpoint.
type Payload struct {
	Catalyst string        `json:"catalyst"`
	Answers  []AnswerEntry `json:"answers"`

	// Skipped lists question ids whose token was neither an integer nor
	// the not-applicable marker. Never sent.
	Skipped []string `json:"-"`
}

// CategoryDetail is the per-category breakdown some scorers return.
type CategoryDetail struct {
	Score             float64 `json:"score"`
	Tier              string  `json:"tier"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
}

// Result is the scoring endpoint's answer. Fields missing from the
// response stay at their zero values. It encodes back to the wire shape,
// so ParseResult reads its own output.
type Result struct {
	OverallTier        string                    `json:"overall_tier"`
	OverallScore       float64                   `json:"overall_score"`
	PriorityCategories []string                  `json:"priority_categories"`
	CategoryScores     map[string]any            `json:"category_scores,omitempty"`
	CategoryDetails    map[string]CategoryDetail `json:"category_details,omitempty"`
	TierDistribution   map[string]any            `json:"tier_distribution,omitempty"`

	// Recommendations holds markdown text; a single-string response
	// becomes a one-element slice.
	Recommendations []string `json:"recommendations"`
}

// RecommendationText joins the recommendations into one markdown document.
func (r *Result) RecommendationText() string {
	return strings.Join(r.Recommendations, "\n\n")
}

// ParseResult decodes a scoring response. A body that is not a JSON object
// yields an empty Result rather than an error, and each field degrades on
// its own when it has an unexpected shape.
func ParseResult(body []byte) *Result {
	r := &Result{}
	if !gjson.ValidBytes(body) {
		return r
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return r
	}

	r.OverallTier = root.Get("overall_tier").String()
	r.OverallScore = root.Get("overall_score").Float()

	if v := root.Get("priority_categories"); v.IsArray() {
		for _, c := range v.Array() {
			r.PriorityCategories = append(r.PriorityCategories, c.String())
		}
	}

	if v := root.Get("category_scores"); v.IsObject() {
		r.CategoryScores, _ = v.Value().(map[string]any)
	}
	if v := root.Get("tier_distribution"); v.IsObject() {
		r.TierDistribution, _ = v.Value().(map[string]any)
	}

	if v := root.Get("category_details"); v.IsObject() {
		r.CategoryDetails = make(map[string]CategoryDetail)
		v.ForEach(func(name, d gjson.Result) bool {
			r.CategoryDetails[name.String()] = CategoryDetail{
				Score:             d.Get("score").Float(),
				Tier:              d.Get("tier").String(),
				QuestionsAnswered: int(d.Get("questions_answered").Int()),
				TotalQuestions:    int(d.Get("total_questions").Int()),
			}
			return true
		})
	}

	recs := root.Get("recommendations")
	switch {
	case recs.IsArray():
		for _, rec := range recs.Array() {
			r.Recommendations = append(r.Recommendations, rec.String())
		}
	case recs.Type == gjson.String && recs.String() != "":
		r.Recommendations = []string{recs.String()}
	}

	return r
}
