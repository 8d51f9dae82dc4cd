package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(from string, read rune, to string, write rune, dir domain.Direction) domain.Rule {
	return domain.Rule{
		From:  domain.StateID(from),
		Read:  domain.Symbol(read),
		To:    domain.StateID(to),
		Write: domain.Symbol(write),
		Dir:   dir,
	}
}

func unaryIncrement() *domain.Machine {
	m := domain.NewMachine(
		rule("0", '1', "0", '1', domain.Right),
		rule("0", '_', "1", '1', domain.Right),
	)
	m.Final = []domain.StateID{"1"}
	return m
}

func TestEngine_UnaryIncrement(t *testing.T) {
	engine := runtime.NewEngine()

	res, err := engine.RunMachine(context.Background(), unaryIncrement(), domain.TapeFromString("11"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Acceptance)
	assert.Equal(t, domain.StatusHaltedAccept, res.Status)
	assert.Equal(t, "111", res.Output)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, domain.StateID("1"), res.State)
	// The eager append after the last rightward move stays on the tape.
	assert.Equal(t, "111_", res.Tape.String())
}

func TestEngine_UndefinedTransitionRejects(t *testing.T) {
	m := domain.NewMachine()
	m.Final = []domain.StateID{"1"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString("a"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Acceptance)
	assert.Equal(t, domain.StatusHaltedReject, res.Status)
	assert.Equal(t, "a", res.Output)
	assert.Equal(t, 0, res.Steps)
}

func TestEngine_EmptyInput(t *testing.T) {
	m := domain.NewMachine()

	t.Run("ParsedEmptyFile", func(t *testing.T) {
		tape := domain.ParseTape("", m.Blank)
		res, err := runtime.NewEngine().RunMachine(context.Background(), m, tape)
		require.NoError(t, err)
		assert.Equal(t, "_", res.Tape.String())
		assert.Equal(t, "_", res.Output)
	})

	t.Run("EmptyTapeIsNormalized", func(t *testing.T) {
		res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.NewTape())
		require.NoError(t, err)
		require.Equal(t, 1, res.Tape.Len())
		assert.Equal(t, domain.Symbol('_'), res.Tape.At(0))
	})

	t.Run("NilTapeIsNormalized", func(t *testing.T) {
		res, err := runtime.NewEngine().RunMachine(context.Background(), m, nil)
		require.NoError(t, err)
		assert.Equal(t, "_", res.Output)
	})
}

func TestEngine_StepLimit(t *testing.T) {
	m := domain.NewMachine(rule("q", '_', "q", '_', domain.Right))
	m.Initial = "q"
	m.Final = []domain.StateID{"q"}

	engine := runtime.NewEngine(runtime.WithMaxSteps(5))
	res, err := engine.RunMachine(context.Background(), m, domain.ParseTape("", m.Blank))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Acceptance)
	assert.Equal(t, domain.StatusStepLimitExceeded, res.Status)
	assert.Equal(t, 5, res.Steps)
	assert.GreaterOrEqual(t, res.Tape.Len(), 6)
	assert.Equal(t, "_", res.Output)
}

func TestEngine_StepLimitNotAccepting(t *testing.T) {
	m := domain.NewMachine(rule("0", '_', "0", '_', domain.Right))

	res, err := runtime.NewEngine(runtime.WithMaxSteps(3)).RunMachine(context.Background(), m, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Acceptance)
	assert.Equal(t, domain.StatusStepLimitExceeded, res.Status)
}

func TestEngine_LeftBoundaryGrowth(t *testing.T) {
	m := domain.NewMachine(rule("S0", 'a', "S0", 'a', domain.Left))
	m.Initial = "S0"
	tape := domain.TapeFromString("a")
	before := tape.Len()

	res, err := runtime.NewEngine(runtime.WithMaxSteps(1)).RunMachine(context.Background(), m, tape)
	require.NoError(t, err)

	assert.Equal(t, before+1, res.Tape.Len())
	assert.Equal(t, 0, res.Head)
	assert.Equal(t, "_a", res.Tape.String())
	assert.Equal(t, "a", res.Output)
}

func TestEngine_RightBoundaryGrowth(t *testing.T) {
	m := domain.NewMachine(rule("0", 'a', "0", 'a', domain.Right))
	tape := domain.TapeFromString("a")

	res, err := runtime.NewEngine(runtime.WithMaxSteps(1)).RunMachine(context.Background(), m, tape)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Tape.Len())
	assert.Equal(t, 1, res.Head)
	assert.Equal(t, "a_", res.Tape.String())
}

func TestEngine_LeftMoveInsideTape(t *testing.T) {
	// Walk right to the end, then back left to the first cell and stop.
	m := domain.NewMachine(
		rule("0", 'a', "0", 'a', domain.Right),
		rule("0", '_', "1", '_', domain.Left),
		rule("1", 'a', "1", 'b', domain.Left),
		rule("1", '_', "2", '_', domain.Right),
	)
	m.Final = []domain.StateID{"2"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString("aaa"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Acceptance)
	assert.Equal(t, "bbb", res.Output)
	assert.Equal(t, "_bbb_", res.Tape.String())
	assert.Equal(t, 1, res.Head)
}

func TestEngine_InvalidDirectionRejects(t *testing.T) {
	m := domain.NewMachine(rule("0", 'a', "1", 'b', domain.Direction("S")))
	m.Final = []domain.StateID{"0", "1"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString("a"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Acceptance, "accepting set must not be consulted")
	assert.Equal(t, domain.StatusHaltedUndefinedTransition, res.Status)
	assert.Equal(t, "b", res.Output, "the symbol is written before halting")
	assert.Equal(t, domain.StateID("0"), res.State)
	assert.Equal(t, 0, res.Steps)
}

func TestEngine_DuplicateRulesLastWins(t *testing.T) {
	m := domain.NewMachine(
		rule("0", 'a', "1", 'x', domain.Right),
		rule("0", 'a', "2", 'y', domain.Right),
	)
	m.Final = []domain.StateID{"2"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString("a"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Acceptance)
	assert.Equal(t, "y", res.Output)
	assert.Equal(t, domain.StateID("2"), res.State)
}

func TestEngine_NoRulesAcceptingInitialKeepsInput(t *testing.T) {
	m := domain.NewMachine()
	m.Final = []domain.StateID{m.Initial}

	for _, in := range []string{"abc", "a_b", "1", "x y"} {
		res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString(in))
		require.NoError(t, err)
		assert.Equal(t, 1, res.Acceptance, in)
		assert.Equal(t, in, res.Output, in)
	}
}

func TestEngine_HeadStaysInBounds(t *testing.T) {
	// Zig-zag machine that keeps extending the tape on both sides.
	m := domain.NewMachine(
		rule("r", '_', "l", '1', domain.Left),
		rule("r", '1', "r", '1', domain.Right),
		rule("l", '_', "r", '1', domain.Right),
		rule("l", '1', "l", '1', domain.Left),
	)
	m.Initial = "r"

	for budget := 1; budget <= 40; budget++ {
		res, err := runtime.NewEngine(runtime.WithMaxSteps(budget)).RunMachine(context.Background(), m, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Head, 0)
		assert.Less(t, res.Head, res.Tape.Len())
		assert.Equal(t, budget, res.Steps)
	}
}

func TestEngine_NilMachine(t *testing.T) {
	_, err := runtime.NewEngine().RunMachine(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrStructuralInput)
}

func TestEngine_DefaultMaxSteps(t *testing.T) {
	assert.Equal(t, runtime.DefaultMaxSteps, runtime.NewEngine().MaxSteps())
	assert.Equal(t, runtime.DefaultMaxSteps, runtime.NewEngine(runtime.WithMaxSteps(0)).MaxSteps())
	assert.Equal(t, 7, runtime.NewEngine(runtime.WithMaxSteps(7)).MaxSteps())
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var started, halted []*domain.RunEvent
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, ev *domain.RunEvent) { started = append(started, ev) },
		OnRunHalt:  func(_ context.Context, ev *domain.RunEvent) { halted = append(halted, ev) },
	}
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))

	m := unaryIncrement()
	m.ID = "inc"
	_, err := engine.RunMachine(context.Background(), m, domain.TapeFromString("1"))
	require.NoError(t, err)

	require.Len(t, started, 1)
	require.Len(t, halted, 1)
	assert.Equal(t, domain.EventRunStart, started[0].Type)
	assert.Equal(t, "inc", started[0].MachineID)
	assert.Equal(t, domain.EventRunHalt, halted[0].Type)
	assert.Equal(t, domain.StatusHaltedAccept, halted[0].Status)
	assert.Equal(t, 1, halted[0].Acceptance)
	assert.Equal(t, 2, halted[0].Steps)
	assert.False(t, halted[0].Timestamp.IsZero())
}

func TestEngine_HooksCarryRunID(t *testing.T) {
	var got string
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunHalt: func(_ context.Context, ev *domain.RunEvent) { got = ev.RunID },
	}))

	ctx := domain.ContextWithRunID(context.Background(), "run-42")
	_, err := engine.RunMachine(ctx, unaryIncrement(), domain.TapeFromString("1"))
	require.NoError(t, err)
	assert.Equal(t, "run-42", got)
}

func TestEngine_With(t *testing.T) {
	base := runtime.NewEngine(runtime.WithMaxSteps(100))
	derived := base.With(runtime.WithMaxSteps(3))

	assert.Equal(t, 100, base.MaxSteps())
	assert.Equal(t, 3, derived.MaxSteps())
	assert.Equal(t, 100, base.With(runtime.WithMaxSteps(0)).MaxSteps())
}

func TestEngine_Canceled(t *testing.T) {
	m := domain.NewMachine(rule("0", '_', "0", '_', domain.Right))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewEngine().RunMachine(ctx, m, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// Short runs finish before the context is polled.
	res, err := runtime.NewEngine(runtime.WithMaxSteps(10)).RunMachine(ctx, m, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStepLimitExceeded, res.Status)
}
