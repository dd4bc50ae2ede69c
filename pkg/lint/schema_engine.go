package lint

import (
	"path/filepath"
	"sort"

	"mdtool/pkg/config"
)

// schemaEngine selects which SchemaDefinition applies to a given path, per
// spec §4.10: most-specific glob pattern wins, ties broken lexicographically,
// a --schema override forces a name, and absence of any match falls back to
// "default".
type schemaEngine struct {
	schemas map[string]config.SchemaDefinition
}

func newSchemaEngine(schemas map[string]config.SchemaDefinition) *schemaEngine {
	return &schemaEngine{schemas: schemas}
}

// Select returns the schema name and definition applying to path. An empty
// name means no schema (and no required-sections findings) applies.
func (e *schemaEngine) Select(path, override string) (string, config.SchemaDefinition) {
	if override != "" {
		if def, ok := e.schemas[override]; ok {
			return override, def
		}
		return "", config.SchemaDefinition{}
	}

	type candidate struct {
		name    string
		pattern string
	}
	var matches []candidate
	for name, def := range e.schemas {
		for _, pat := range def.Patterns {
			if ok, _ := filepath.Match(pat, path); ok {
				matches = append(matches, candidate{name: name, pattern: pat})
			}
		}
	}

	if len(matches) == 0 {
		if def, ok := e.schemas["default"]; ok {
			return "default", def
		}
		return "", config.SchemaDefinition{}
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i].pattern) != len(matches[j].pattern) {
			return len(matches[i].pattern) > len(matches[j].pattern) // more specific (longer) wins
		}
		return matches[i].name < matches[j].name
	})

	best := matches[0]
	return best.name, e.schemas[best.name]
}

// globMatch reports whether p matches glob, used by the [[lint.ignore]]
// overlay.
func globMatch(glob, p string) bool {
	ok, _ := filepath.Match(glob, p)
	return ok
}
