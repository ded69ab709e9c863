package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "tidyreport-config.schema.json"

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "tool": {"type": "string", "minLength": 1},
    "repoName": {"type": "string"},
    "maxRows": {"type": "integer", "minimum": 1},
    "output": {"type": "string", "minLength": 1},
    "format": {"enum": ["markdown", "md", "text", "json", "sarif", "html"]},
    "jobs": {"type": "integer", "minimum": 0},
    "exclude": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "failOnWarnings": {"type": "integer", "minimum": 0},
    "color": {"enum": ["auto", "always", "never"]},
    "github": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "stepSummary": {"type": "boolean"},
        "annotations": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var configSchema = jsonschema.MustCompileString(schemaURL, schemaJSON)

// validateDocument checks a YAML config document against the schema. The
// document is re-encoded as JSON first so the validator sees JSON types.
func validateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		// empty file
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	return configSchema.Validate(payload)
}
