package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchemaDef is the JSON Schema every bank question must satisfy.
// correct_index < len(options) is checked separately.
var questionSchemaDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":       map[string]any{"type": "string", "minLength": 1},
		"topic_id": map[string]any{"type": "string", "minLength": 1},
		"text":     map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": 2,
		},
		"correct_index": map[string]any{"type": "integer", "minimum": 0},
		"explanation":   map[string]any{"type": "string"},
	},
	"required": []any{"id", "topic_id", "text", "options", "correct_index"},
}

var (
	compileOnce    sync.Once
	questionSchema *jsonschema.Schema
	compileErr     error
)

func compiledQuestionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		b, err := json.Marshal(questionSchemaDef)
		if err != nil {
			compileErr = fmt.Errorf("marshal question schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			compileErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://bank-question.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		questionSchema, compileErr = c.Compile(url)
	})
	return questionSchema, compileErr
}

// decodeQuestion validates a raw decoded question (from YAML or JSON) and
// converts it into a Question.
func decodeQuestion(raw any) (Question, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return Question{}, fmt.Errorf("normalize question: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return Question{}, fmt.Errorf("normalize question: %w", err)
	}

	schema, err := compiledQuestionSchema()
	if err != nil {
		return Question{}, err
	}
	if err := schema.Validate(v); err != nil {
		return Question{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var q Question
	if err := json.Unmarshal(b, &q); err != nil {
		return Question{}, fmt.Errorf("decode question: %w", err)
	}
	if q.CorrectIndex >= len(q.Options) {
		return Question{}, fmt.Errorf("correct_index %d out of range for %d options", q.CorrectIndex, len(q.Options))
	}
	return q, nil
}
