package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/internal/dto"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a machine document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
// ".yaml" and ".yml" are YAML; anything else is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

var documentSchema = schema.Schema{
	"white":       schema.Optional(schema.Symbol()),
	"initial":     schema.Optional(schema.State()),
	"final":       schema.Optional(schema.Slice(schema.State())),
	"transitions": schema.Optional(schema.Slice(schema.Map())),
	"description": schema.Optional(schema.String()),
}

var ruleSchema = schema.Schema{
	"from":  schema.State(),
	"read":  schema.Symbol(),
	"to":    schema.State(),
	"write": schema.Symbol(),
	"dir":   schema.String(),
}

// Parser is responsible for converting raw documents into Machines.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data in the given format into a Machine.
// A structurally invalid document yields an error that matches
// domain.ErrStructuralInput and lists every problem found.
func (p *Parser) Parse(data []byte, format Format) (*domain.Machine, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return p.ParseMap(raw)
}

// ParseMap builds a Machine from an already decoded document (e.g. YAML
// front matter).
func (p *Parser) ParseMap(raw map[string]any) (*domain.Machine, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc dto.MachineDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // numeric state ids become strings
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStructuralInput, err)
	}

	return toMachine(doc), nil
}

// Parse is a convenience wrapper around (*Parser).Parse.
func Parse(data []byte, format Format) (*domain.Machine, error) {
	return NewParser().Parse(data, format)
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML: %v", domain.ErrStructuralInput, err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrStructuralInput, err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if raw == nil {
		return nil, &domain.StructuralError{Path: "$", Reason: "document must be an object"}
	}
	return raw, nil
}

func validateDocument(raw map[string]any) error {
	var errs []error
	collect := func(prefix string, err error) {
		for _, e := range schema.ValidationErrors(err) {
			var verr *schema.ValidationError
			if errors.As(e, &verr) {
				errs = append(errs, &domain.StructuralError{Path: prefix + verr.Key, Reason: verr.Reason})
			}
		}
	}

	collect("", schema.Validate(documentSchema, raw))
	if len(errs) > 0 {
		// Transitions cannot be inspected if the outer shape is wrong.
		return &schema.AggregateError{Errors: errs}
	}

	rules, _ := raw["transitions"].([]any)
	for i, r := range rules {
		collect(fmt.Sprintf("transitions[%d].", i), schema.Validate(ruleSchema, r.(map[string]any)))
	}
	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

func toMachine(doc dto.MachineDocument) *domain.Machine {
	m := domain.NewMachine()
	if doc.White != "" {
		m.Blank = firstSymbol(doc.White)
	}
	if doc.Initial != "" {
		m.Initial = domain.StateID(doc.Initial)
	}
	for _, s := range doc.Final {
		m.Final = append(m.Final, domain.StateID(s))
	}
	m.Rules = make([]domain.Rule, 0, len(doc.Transitions))
	for _, t := range doc.Transitions {
		m.Rules = append(m.Rules, domain.Rule{
			From:  domain.StateID(t.From),
			Read:  firstSymbol(t.Read),
			To:    domain.StateID(t.To),
			Write: firstSymbol(t.Write),
			Dir:   domain.Direction(t.Dir),
		})
	}
	m.Description = doc.Description
	return m
}

func firstSymbol(s string) domain.Symbol {
	for _, r := range s {
		return domain.Symbol(r)
	}
	return 0
}
