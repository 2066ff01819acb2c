package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionsSchemaURL names the embedded schema resource for the compiler.
const questionsSchemaURL = "schema://assessment-questions.json"

// QuestionsSchema describes the questions source document.
var QuestionsSchema = map[string]any{
	"type":     "object",
	"required": []any{"assessment"},
	"properties": map[string]any{
		"assessment": map[string]any{
			"type":        "object",
			"description": "Section name to ordered question list",
			"additionalProperties": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id", "question", "scoring_scale"},
					"properties": map[string]any{
						"id": map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						"question": map[string]any{
							"type": "string",
						},
						"scoring_scale": map[string]any{
							"type":                 "object",
							"minProperties":        1,
							"additionalProperties": map[string]any{"type": "string"},
							"description":          "Answer token to label",
						},
					},
				},
			},
		},
	},
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateDocument checks a decoded questions document against QuestionsSchema.
func validateDocument(doc any) error {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(QuestionsSchema)
	})
	if compileErr != nil {
		return fmt.Errorf("compile questions schema: %w", compileErr)
	}
	return compiledSchema.Validate(doc)
}

func compileSchema(def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants plain decoded JSON values, not typed Go slices.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionsSchemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(questionsSchemaURL)
}
