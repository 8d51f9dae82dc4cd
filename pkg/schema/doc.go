// Package schema provides field validation for decoded documents.
//
// It defines a small type system for the values found in machine
// descriptions (strings, single-character symbols, state identifiers,
// lists and objects). Schemas map field names to types; a field is required
// unless wrapped with Optional.
//
// Basic usage:
//
//	rule := schema.Schema{
//	    "from":  schema.State(),
//	    "read":  schema.Symbol(),
//	    "to":    schema.State(),
//	    "write": schema.Symbol(),
//	    "dir":   schema.String(),
//	}
//
//	if err := schema.Validate(rule, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // Handle each failure
//	    }
//	}
//
// All failures of a document are reported at once through AggregateError.
package schema
