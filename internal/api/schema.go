package api

import (
	"embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[Operation]*gojsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[Operation]*gojsonschema.Schema, error) {
	schemasOnce.Do(func() {
		loaded := make(map[Operation]*gojsonschema.Schema, 3)
		for _, op := range []Operation{OpUpload, OpAnalyze, OpMatch} {
			raw, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", op))
			if err != nil {
				schemasErr = fmt.Errorf("reading %s schema: %w", op, err)
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				schemasErr = fmt.Errorf("compiling %s schema: %w", op, err)
				return
			}
			loaded[op] = schema
		}
		schemas = loaded
	})
	return schemas, schemasErr
}

// checkShape validates a response body against the operation schema and
// returns the violations as human-readable strings. It never fails the call.
func checkShape(op Operation, body any) []string {
	loaded, err := loadSchemas()
	if err != nil {
		return []string{err.Error()}
	}

	result, err := loaded[op].Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return []string{fmt.Sprintf("validating %s response: %v", op, err)}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return problems
}
