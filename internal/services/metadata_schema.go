package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

// aiMetadataSchema describes the optional document attached to a job by the
// tooling that generated the source video.
const aiMetadataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "source_language": {"type": "string", "minLength": 2, "maxLength": 16},
    "target_language": {"type": "string", "minLength": 2, "maxLength": 16},
    "model":           {"type": "string", "maxLength": 200},
    "voice":           {"type": "string", "maxLength": 200},
    "topics":          {"type": "array", "items": {"type": "string"}, "maxItems": 50},
    "segments": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["start", "end"],
        "properties": {
          "start": {"type": "number", "minimum": 0},
          "end":   {"type": "number", "minimum": 0},
          "text":  {"type": "string"}
        }
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "additionalProperties": true
}`

var (
	metadataSchemaOnce sync.Once
	metadataSchema     *jsonschema.Schema
	metadataSchemaErr  error
)

func compiledMetadataSchema() (*jsonschema.Schema, error) {
	metadataSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("ai_metadata.json", strings.NewReader(aiMetadataSchema)); err != nil {
			metadataSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		metadataSchema, metadataSchemaErr = compiler.Compile("ai_metadata.json")
	})
	return metadataSchema, metadataSchemaErr
}

// ValidateAIMetadata accepts an empty document or one matching the schema.
func ValidateAIMetadata(raw json.RawMessage) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	schema, err := compiledMetadataSchema()
	if err != nil {
		return apperrors.InternalError(err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return apperrors.ValidationError(map[string]string{"ai_metadata": "Must be valid JSON"})
	}
	if err := schema.Validate(v); err != nil {
		return apperrors.ValidationError(map[string]string{"ai_metadata": err.Error()})
	}
	return nil
}
