package config

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// configShape describes the allowed top-level keys/types of
// .markdown-doc.toml, independent of the per-repo schemas.<name>
// documentation schemas the required-sections rule consumes. It exists so
// a typo like "[lnit]" or a wrong value type fails with a structural,
// path-scoped message rather than a silent zero-value decode.
var configShape = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"project": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root":    {Type: "string"},
				"exclude": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
		"catalog": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"output":           {Type: "string"},
				"include_patterns": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"exclude_patterns": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
		"lint": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"rules":             {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"max_heading_depth": {Type: "integer"},
				"toc_start_marker":  {Type: "string"},
				"toc_end_marker":    {Type: "string"},
				"severity":          {Type: "object"},
				"ignore":            {Type: "array"},
			},
		},
		"schemas": {Type: "object"},
	},
	AdditionalProperties: jsonschema.FalseSchema(),
}

var resolvedConfigShape *jsonschema.Resolved

func init() {
	resolved, err := configShape.Resolve(nil)
	if err != nil {
		// The schema above is a compile-time literal; a Resolve failure here
		// would mean the literal itself is malformed, which is a programmer
		// error caught the first time this package is exercised.
		panic(fmt.Sprintf("config: invalid embedded config schema: %v", err))
	}
	resolvedConfigShape = resolved
}

// validateShape checks a generically-decoded TOML document against
// configShape before the strict typed decode.
func validateShape(generic map[string]any) error {
	return resolvedConfigShape.Validate(generic)
}
