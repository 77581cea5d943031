package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	eventsSchemaOnce sync.Once
	eventsSchema     *jsonschema.Schema
	eventsSchemaErr  error
)

func compiledEventsSchema() (*jsonschema.Schema, error) {
	eventsSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildEventsJSONSchema())
		if err != nil {
			eventsSchemaErr = fmt.Errorf("marshal events schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("events.json", bytes.NewReader(b)); err != nil {
			eventsSchemaErr = fmt.Errorf("add events schema: %w", err)
			return
		}
		eventsSchema, eventsSchemaErr = compiler.Compile("events.json")
	})
	return eventsSchema, eventsSchemaErr
}

// ValidateEvents checks a raw model response against the page-events schema.
// The compiled schema is cached; validation runs once per extracted page so
// recompiling per call would dominate the cost.
func ValidateEvents(data []byte) error {
	schema, err := compiledEventsSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal events payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("events payload does not match schema: %w", err)
	}
	return nil
}
