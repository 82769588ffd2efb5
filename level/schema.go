package level

import (
	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed script.schema.json
var scriptSchemaSrc string

// scriptSchema validates decoded trigger/action fragments before they
// reach the script parser. Fragments that fail are dropped with a
// warning instead of aborting the map load.
var scriptSchema = jsonschema.MustCompileString("script.schema.json", scriptSchemaSrc)

func validateScript(v any) error {
	return scriptSchema.Validate(v)
}
