package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed lessons.schema.json
var documentSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func documentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchemaJSON))
	})
	return schema, schemaErr
}

// checkSchema validates a decoded YAML/JSON document against the embedded
// lesson document schema.
func checkSchema(name string, doc any) error {
	s, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile lesson schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%s: validate schema: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s: schema: %s", name, strings.Join(msgs, "; "))
}
