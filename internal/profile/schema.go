package profile

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// profileSchema describes the accepted JSON shape of an imported profile.
// Collections may be null or omitted; they are normalized to empty.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": ["string", "null"]},
    "title": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]},
    "linkedin": {"type": ["string", "null"]},
    "skills": {"type": ["array", "null"], "items": {"type": "string"}},
    "experience": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "role": {"type": "string"},
          "company": {"type": "string"},
          "city": {"type": "string"},
          "start": {"type": "string"},
          "end": {"type": "string"},
          "bullets": {"type": ["array", "null"], "items": {"type": "string"}}
        }
      }
    },
    "education": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "school": {"type": "string"},
          "degree": {"type": "string"},
          "field": {"type": "string"},
          "startYear": {"type": "string"},
          "endYear": {"type": "string"}
        }
      }
    },
    "achievements": {
      "type": ["array", "null"],
      "items": {
        "anyOf": [
          {"type": "string"},
          {"type": "object", "properties": {"title": {"type": "string"}}}
        ]
      }
    },
    "certifications": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "issuer": {"type": "string"},
          "year": {"type": "string"}
        }
      }
    },
    "references": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "title": {"type": "string"},
          "company": {"type": "string"},
          "email": {"type": "string"},
          "phone": {"type": "string"}
        }
      }
    },
    "projects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "url": {"type": "string"},
          "description": {"type": "string"},
          "tags": {"type": ["array", "null"], "items": {"type": "string"}},
          "image": {"type": "string"}
        }
      }
    },
    "social": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    }
  }
}`

// SchemaError reports JSON that does not match the profile schema
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	msg := "profile does not match schema:"
	for _, fe := range e.Errors {
		msg += fmt.Sprintf(" %s: %s;", fe.Field, fe.Message)
	}
	return msg
}

// ValidateSchema checks raw profile JSON against the profile schema
func ValidateSchema(data []byte) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(profileSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate profile schema: %w", err)
	}
	if res.Valid() {
		return nil
	}
	out := &SchemaError{}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, FieldError{Field: e.Field(), Message: e.Description()})
	}
	return out
}
