// Package i18n holds the embedded translation tables served to views.
package i18n

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json locales/*.json
var files embed.FS

// Table is one language's translations grouped by section.
type Table struct {
	Lang   string            `json:"lang"`
	Nav    map[string]string `json:"nav"`
	Common map[string]string `json:"common"`
	Errors map[string]string `json:"errors"`
}

// Catalog maps language codes to validated tables.
type Catalog struct {
	tables   map[string]Table
	fallback string
}

// Load reads every embedded table and validates it against the embedded schema.
func Load(fallback string) (*Catalog, error) {
	schemaBytes, err := files.ReadFile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("read translation schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, fmt.Errorf("register translation schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile translation schema: %w", err)
	}

	entries, err := files.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}

	catalog := &Catalog{tables: make(map[string]Table, len(entries))}
	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), ".json")
		raw, err := files.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s translations: %w", code, err)
		}

		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s translations: %w", code, err)
		}
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("invalid %s translations: %w", code, err)
		}

		var table Table
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("decode %s translations: %w", code, err)
		}
		if table.Lang != code {
			return nil, fmt.Errorf("translation file %s declares lang %q", entry.Name(), table.Lang)
		}
		catalog.tables[code] = table
	}

	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if _, ok := catalog.tables[fallback]; !ok {
		return nil, fmt.Errorf("default language %q has no translation table", fallback)
	}
	catalog.fallback = fallback

	return catalog, nil
}

// Supports reports whether a table exists for code.
func (c *Catalog) Supports(code string) bool {
	_, ok := c.tables[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Lookup returns the table for code, falling back to the default language.
func (c *Catalog) Lookup(code string) Table {
	if table, ok := c.tables[strings.ToLower(strings.TrimSpace(code))]; ok {
		return table
	}
	return c.tables[c.fallback]
}

// Default returns the fallback language code.
func (c *Catalog) Default() string {
	return c.fallback
}

// Languages lists the available codes in sorted order.
func (c *Catalog) Languages() []string {
	codes := make([]string, 0, len(c.tables))
	for code := range c.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
