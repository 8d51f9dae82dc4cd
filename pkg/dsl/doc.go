/*
Package dsl provides a fluent Go API for building Turing machines without
writing JSON or YAML documents.

It is useful for generated machines, unit tests and examples:

	inc := dsl.NewMachine("inc").Accept("1")
	inc.State("0").
		On('1').Right().Goto("0").
		On('_').Write('1').Right().Goto("1")

	m, err := inc.Build()

A Builder collects several machines into a memory loader that can back the
run manager or the HTTP and MCP adapters.
*/
package dsl
