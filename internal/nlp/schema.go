package nlp

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// translationSchema is the fixed contract the LLM output must satisfy.
// Anything outside it is rejected outright; fields are never coerced.
const translationSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["intent"],
  "additionalProperties": false,
  "properties": {
    "intent": {
      "type": "string",
      "enum": ["list_topics", "create_topic", "describe_topic", "explain_concept", "unknown"]
    },
    "topic":      {"type": "string", "maxLength": 512},
    "partitions": {"type": "integer", "minimum": 0, "maximum": 2147483647},
    "retention":  {"type": "string", "maxLength": 128},
    "concept":    {"type": "string", "maxLength": 512},
    "answer":     {"type": "string", "maxLength": 4096}
  }
}`

var compiledTranslationSchema = jsonschema.MustCompileString("translation.json", translationSchema)

// decodeTranslation validates raw LLM output against the translation schema
// and decodes it. Returns ErrMalformedOutput (wrapped with detail) when the
// bytes are not JSON or do not conform.
func decodeTranslation(raw []byte) (*Translation, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrMalformedOutput, err)
	}
	if err := compiledTranslationSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: schema violation: %v", ErrMalformedOutput, err)
	}

	var t Translation
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedOutput, err)
	}
	return &t, nil
}
