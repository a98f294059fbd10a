package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	schemaGenerate = "generate-response"
	schemaSubmit   = "submit-response"
)

var schemaDefs = map[string]string{
	schemaGenerate: `{
		"type": "object",
		"required": ["assessmentId", "questions"],
		"properties": {
			"assessmentId": {"type": "string", "minLength": 1},
			"skill": {"type": "string"},
			"questions": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "type", "question"],
					"properties": {
						"id": {"type": ["integer", "string"]},
						"type": {"enum": ["mcq", "code"]},
						"question": {"type": "string"},
						"options": {"type": "array", "items": {"type": "string"}},
						"language": {"type": "string"},
						"starterCode": {"type": "string"}
					},
					"if": {"properties": {"type": {"const": "mcq"}}},
					"then": {
						"required": ["options"],
						"properties": {"options": {"minItems": 2}}
					}
				}
			}
		}
	}`,
	schemaSubmit: `{
		"type": "object",
		"required": ["score", "totalMcq", "mcqPercentage"],
		"properties": {
			"message": {"type": "string"},
			"score": {"type": "integer", "minimum": 0},
			"totalMcq": {"type": "integer", "minimum": 0},
			"mcqPercentage": {"type": "number", "minimum": 0},
			"terminated": {"type": "boolean"}
		}
	}`,
}

// schemaCache caches compiled response schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks raw against the named response schema.
func validateBody(name string, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(name)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemaDefs[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema")
	}
	var doc any
	if err := json.Unmarshal([]byte(def), &doc); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
