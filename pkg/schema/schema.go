// Package schema handles tool input schemas: compiling and validating
// arguments against JSON Schema, listing schema properties for interactive
// prompting, and coercing string input into typed argument values.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Property describes one input schema property in declaration order
type Property struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Validate checks a JSON document against a JSON Schema. An empty schema
// accepts everything.
func Validate(schemaJSON json.RawMessage, doc interface{}) error {
	if len(schemaJSON) == 0 {
		return nil
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	return s.Validate(doc)
}

// ValidateArguments checks tool arguments against the tool's input schema.
// Arguments pass through a JSON round trip first so Go-typed values (int,
// struct) validate the same way their wire form would.
func ValidateArguments(inputSchema json.RawMessage, args map[string]interface{}) error {
	if len(inputSchema) == 0 {
		return nil
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}

	return Validate(inputSchema, doc)
}

// Properties lists the properties of an input schema in declaration order,
// with their type, description and required flag. An empty schema yields an
// empty list.
func Properties(inputSchema json.RawMessage) ([]Property, error) {
	if len(inputSchema) == 0 {
		return nil, nil
	}

	var top struct {
		Properties json.RawMessage `json:"properties"`
		Required   []string        `json:"required"`
	}
	if err := json.Unmarshal(inputSchema, &top); err != nil {
		return nil, fmt.Errorf("parse input schema: %w", err)
	}
	if len(top.Properties) == 0 {
		return nil, nil
	}

	required := make(map[string]bool, len(top.Required))
	for _, name := range top.Required {
		required[name] = true
	}

	// Walk the properties object with a token decoder to keep the
	// declaration order that a map would lose.
	dec := json.NewDecoder(bytes.NewReader(top.Properties))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("properties is not an object")
	}

	var props []Property
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse properties: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("properties key is not a string")
		}

		var def struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		}
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parse property %q: %w", name, err)
		}
		if def.Type == "" {
			def.Type = "string"
		}

		props = append(props, Property{
			Name:        name,
			Type:        def.Type,
			Description: def.Description,
			Required:    required[name],
		})
	}

	return props, nil
}

// Coerce converts a raw string into a value of the given JSON Schema type.
// Arrays and objects expect valid JSON; booleans accept true/1/yes/y and
// false/0/no/n; anything else stays a string.
func Coerce(propType, raw string) (interface{}, error) {
	switch propType {
	case "integer":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return v, nil
	case "number":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return v, nil
	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "1", "yes", "y":
			return true, nil
		case "false", "0", "no", "n":
			return false, nil
		}
		return nil, fmt.Errorf("please enter true/false")
	case "array", "object":
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("please enter valid JSON for %s: %v", propType, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}
