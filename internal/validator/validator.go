package validator

// =============================================================================
// VALIDATOR PHILOSOPHY: CRASH EARLY, CRASH LOUD
// =============================================================================
//
// The CUE validator guards the two contracts this tool has with the outside:
// - the configuration a user hands us (config_schema.cue)
// - the result rows we hand to whoever consumes the TSV (result_schema.cue)
//
// A characterisation run can take hours of synthesis time. A typo in the
// vendor name or a zero width must stop the run before the first tool
// invocation, not after the last one. Likewise a result row with a
// non-decimal delay must never reach the spreadsheet silently.
//
// WHEN VALIDATION FAILS:
// 1. DON'T loosen the schema to make the error go away
// 2. DO fix the producer: the config file, or the code building the row
// =============================================================================

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed config_schema.cue
var configSchemaFS embed.FS

//go:embed result_schema.cue
var resultSchemaFS embed.FS

// Validator checks Go values against one embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
	name   string
}

func newValidator(fs embed.FS, file, name string) (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("loading embedded %s schema: %w", name, err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
		name:   name,
	}, nil
}

// NewConfigValidator creates a validator for the configuration contract.
func NewConfigValidator() (*Validator, error) {
	return newValidator(configSchemaFS, "config_schema.cue", "config")
}

// NewResultValidator creates a validator for result rows.
func NewResultValidator() (*Validator, error) {
	return newValidator(resultSchemaFS, "result_schema.cue", "result")
}

// ValidateConfig checks a configuration value against #Config.
func (v *Validator) ValidateConfig(data interface{}) error {
	return v.Validate(data, "#Config")
}

// ValidateRows checks a slice of result rows against #ResultRows.
func (v *Validator) ValidateRows(data interface{}) error {
	return v.Validate(data, "#ResultRows")
}

// Validate marshals data to JSON and unifies it with the named definition.
// Returns nil if valid, or an error listing what failed.
func (v *Validator) Validate(data interface{}, definition string) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes, definition)
}

// ValidateJSON validates JSON bytes directly against the named definition.
func (v *Validator) ValidateJSON(jsonBytes []byte, definition string) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling JSON as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", definition, def.Err())
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s schema validation failed: %w", v.name, err)
	}

	return nil
}

// ValidationErrors returns every individual validation failure, or nil.
func (v *Validator) ValidationErrors(data interface{}, definition string) []string {
	err := v.Validate(data, definition)
	if err == nil {
		return nil
	}
	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	if len(errs) == 0 {
		errs = append(errs, err.Error())
	}
	return errs
}
