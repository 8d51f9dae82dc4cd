package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "symbol").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// SymbolType validates strings holding exactly one character.
type SymbolType struct{}

func (t *SymbolType) Name() string { return "symbol" }

func (t *SymbolType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected single-character string, got %T", value)
	}
	if n := utf8.RuneCountInString(s); n != 1 {
		return fmt.Errorf("expected exactly one character, got %d", n)
	}
	return nil
}

// StateType validates state identifiers: strings or whole numbers.
type StateType struct{}

func (t *StateType) Name() string { return "state" }

func (t *StateType) Validate(value any) error {
	switch v := value.(type) {
	case string:
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return fmt.Errorf("expected whole number, got %s", v)
		}
		return nil
	case float64:
		// JSON numbers decode as float64.
		if v != float64(int64(v)) {
			return fmt.Errorf("expected whole number, got %v", v)
		}
		return nil
	default:
		return fmt.Errorf("expected string or integer, got %T", value)
	}
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}

	// Validate each element
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// MapType validates objects (map[string]any).
type MapType struct{}

func (t *MapType) Name() string { return "object" }

func (t *MapType) Validate(value any) error {
	if _, ok := value.(map[string]any); !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	return nil
}

// OptionalType marks a field that may be absent. Present values are
// validated against the wrapped type.
type OptionalType struct {
	Type
}

func (t *OptionalType) Name() string { return t.Type.Name() + "?" }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Symbol creates a single-character string validator.
func Symbol() Type { return &SymbolType{} }

// State creates a state identifier validator.
func State() Type { return &StateType{} }

// Map creates an object validator.
func Map() Type { return &MapType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Optional wraps a type so that a missing field is not an error.
func Optional(t Type) Type {
	return &OptionalType{Type: t}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}
