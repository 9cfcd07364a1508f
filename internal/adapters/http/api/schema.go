package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxBodyBytes bounds every POST body.
const maxBodyBytes = 1 << 20

// Request body schemas, keyed by name. They mirror openapi.yaml.
var schemas = map[string]string{
	"event": `{
  "type": "object",
  "required": ["event_id", "student_id", "kind", "ts"],
  "properties": {
    "event_id":   {"type": "string", "minLength": 1},
    "student_id": {"type": "string", "minLength": 1},
    "kind":       {"enum": ["quiz_completed", "duel_won", "duel_lost"]},
    "points":     {"type": "integer", "minimum": 0, "maximum": 10000},
    "ts":         {"type": "string", "format": "date-time"}
  },
  "if":   {"properties": {"kind": {"const": "quiz_completed"}}},
  "then": {"required": ["points"]},
  "additionalProperties": false
}`,
	"review": `{
  "type": "object",
  "required": ["text"],
  "properties": {
    "text":          {"type": "string"},
    "choices":       {"type": "array", "items": {"type": "string"}},
    "correct_index": {"type": "integer", "minimum": -1},
    "taxonomy":      {"type": "string"},
    "bank":          {"type": "array", "items": {"type": "string"}, "maxItems": 5000}
  },
  "additionalProperties": false
}`,
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}
	src, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("no schema named %q", name)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat()
	url := "schema://" + name + ".json"
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

// decodeBody validates the request body against the named schema and
// decodes it into dst. Failures are ErrBadRequest, except a broken schema.
func decodeBody(op, schema string, r *http.Request, w http.ResponseWriter, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("invalid JSON: %w", err))
	}
	sch, err := compiledSchema(schema)
	if err != nil {
		return Wrap(op, err)
	}
	if err := sch.Validate(doc); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
