package draft

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// draftSchema is the strict publish-readiness schema. The permissive default
// path never runs it; strict mode rejects drafts with an empty title or
// quiz questions missing any of their four options or a valid correct
// letter.
const draftSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "sections"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "videos": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["title"],
              "properties": {
                "title": {"type": "string", "minLength": 1}
              }
            }
          },
          "quizzes": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "questions"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "questions": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["text", "optionA", "optionB", "optionC", "optionD", "correct"],
                    "properties": {
                      "text": {"type": "string", "minLength": 1},
                      "optionA": {"type": "string", "minLength": 1},
                      "optionB": {"type": "string", "minLength": 1},
                      "optionC": {"type": "string", "minLength": 1},
                      "optionD": {"type": "string", "minLength": 1},
                      "correct": {"type": "string", "pattern": "^[ABCDabcd]$"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// Validate checks a draft against the strict publish schema and returns an
// error listing every violation.
func Validate(d Draft) error {
	schemaLoader := gojsonschema.NewStringLoader(draftSchema)
	docLoader := gojsonschema.NewGoLoader(d)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("draft is not publishable: %s", strings.Join(problems, "; "))
}
