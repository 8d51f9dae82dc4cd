package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"from": State(), "read": Symbol(), "dir": String()}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Fields are checked in name order so that error lists are stable.
// Returns an error with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for _, fieldName := range schema.Fields() {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists || value == nil {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		// Validate the value against the type
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	// If there are errors, aggregate them
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// Fields returns the schema field names in sorted order.
func (s Schema) Fields() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
