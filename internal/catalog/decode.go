package catalog

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Parse builds a Catalog from a questions document of the form
// {"assessment": {"<section>": [{"id", "question", "scoring_scale"}]}}.
// Section order and scale order follow the document's key order, which
// encoding/json maps would lose, so the walk is done with gjson.
func Parse(doc []byte) (*Catalog, error) {
	if !gjson.ValidBytes(doc) {
		return nil, &ConfigError{Reason: "questions document is not valid JSON"}
	}

	var decoded any
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return nil, &ConfigError{Reason: "decode questions document", Err: err}
	}
	if err := validateDocument(decoded); err != nil {
		return nil, &ConfigError{Reason: "questions document does not match schema", Err: err}
	}

	var sections []Section
	gjson.GetBytes(doc, "assessment").ForEach(func(name, items gjson.Result) bool {
		sec := Section{Name: name.String()}
		items.ForEach(func(_, item gjson.Result) bool {
			sec.Questions = append(sec.Questions, parseQuestion(item))
			return true
		})
		sections = append(sections, sec)
		return true
	})

	return New(sections)
}

func parseQuestion(item gjson.Result) Question {
	q := Question{
		ID:     item.Get("id").String(),
		Prompt: item.Get("question").String(),
	}
	item.Get("scoring_scale").ForEach(func(token, label gjson.Result) bool {
		q.Scale = append(q.Scale, ScaleOption{
			Token: token.String(),
			Label: label.String(),
		})
		return true
	})
	return q
}
