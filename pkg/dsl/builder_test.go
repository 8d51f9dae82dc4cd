package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

func TestMachineBuilder_UnaryIncrement(t *testing.T) {
	inc := NewMachine("inc").Accept("1").Describe("Appends a 1.")
	inc.State("0").
		On('1').Right().Goto("0").
		On('_').Write('1').Right().Goto("1")

	m, err := inc.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(m.Rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(m.Rules))
	}
	if m.Rules[0].Write != '1' {
		t.Errorf("Write should default to the symbol read, got %q", m.Rules[0].Write)
	}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString("11"))
	if err != nil {
		t.Fatalf("RunMachine failed: %v", err)
	}
	if res.Output != "111" || res.Acceptance != 1 {
		t.Errorf("Expected 111/1, got %s/%d", res.Output, res.Acceptance)
	}
}

func TestMachineBuilder_Defaults(t *testing.T) {
	m, err := NewMachine("empty").Build()
	if err != nil {
		t.Fatal(err)
	}
	if m.Blank != domain.DefaultBlank || m.Initial != domain.DefaultInitial {
		t.Errorf("Unexpected defaults: blank=%q initial=%q", m.Blank, m.Initial)
	}

	custom, err := NewMachine("c").Blank('#').Initial("q0").Build()
	if err != nil {
		t.Fatal(err)
	}
	if custom.Blank != '#' || custom.Initial != "q0" {
		t.Errorf("Setters not applied: %+v", custom)
	}
}

func TestMachineBuilder_MissingDirection(t *testing.T) {
	mb := NewMachine("bad")
	mb.State("0").On('a').Goto("1")

	_, err := mb.Build()
	if !errors.Is(err, domain.ErrStructuralInput) {
		t.Fatalf("Expected structural error, got %v", err)
	}
}

func TestMachineBuilder_BuildReturnsCopy(t *testing.T) {
	mb := NewMachine("m").Rule("0", 'a', "0", 'b', domain.Left)
	first, _ := mb.Build()
	mb.Rule("0", 'b', "0", 'a', domain.Right)
	if len(first.Rules) != 1 {
		t.Errorf("Built machine must not see later rules, got %d", len(first.Rules))
	}
}

func TestBuilder_Library(t *testing.T) {
	b := New()
	b.Add("flip").Accept("0").
		State("0").
		On('0').Write('1').Right().Goto("0").
		On('1').Write('0').Right().Goto("0")
	b.Add("halt").Accept("0")

	if b.Add("flip") != b.Add("flip") {
		t.Error("Add should return the existing builder")
	}

	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	ids, err := loader.ListMachines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "flip" || ids[1] != "halt" {
		t.Errorf("Unexpected ids: %v", ids)
	}

	m, err := loader.LoadMachine(context.Background(), "flip")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Rules) != 2 {
		t.Errorf("Expected 2 rules, got %d", len(m.Rules))
	}
}

func TestBuilder_PropagatesMachineErrors(t *testing.T) {
	b := New()
	b.Add("bad").State("0").On('x').Goto("0")

	if _, err := b.Build(); err == nil {
		t.Fatal("Expected error for rule without direction")
	}
}
