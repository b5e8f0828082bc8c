package md2notion

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/blocks.schema.json
var schemaFS embed.FS

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaCompile  error
)

// blockSchema compiles the embedded block schema once.
func blockSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schema/blocks.schema.json")
		if err != nil {
			schemaCompile = fmt.Errorf("%w: %v", ErrSchemaCompile, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("blocks.schema.json", bytes.NewReader(raw)); err != nil {
			schemaCompile = fmt.Errorf("%w: %v", ErrSchemaCompile, err)
			return
		}
		compiledSchema, err = compiler.Compile("blocks.schema.json")
		if err != nil {
			schemaCompile = fmt.Errorf("%w: %v", ErrSchemaCompile, err)
		}
	})
	return compiledSchema, schemaCompile
}

// ValidateBlocks checks a block list against the embedded block schema.
// Convert output always validates; this is the safety net for callers that
// assemble or mutate blocks themselves before submission.
func ValidateBlocks(blocks []Block) error {
	schema, err := blockSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}
