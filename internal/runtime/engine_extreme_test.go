package runtime_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Extreme_BusyBeaver(t *testing.T) {
	// 2-state, 2-symbol busy beaver on a tape of zeros.
	m := domain.NewMachine(
		rule("A", '0', "B", '1', domain.Right),
		rule("A", '1', "B", '1', domain.Left),
		rule("B", '0', "A", '1', domain.Left),
		rule("B", '1', "H", '1', domain.Right),
	)
	m.Blank = '0'
	m.Initial = "A"
	m.Final = []domain.StateID{"H"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.NewTape())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusHaltedAccept, res.Status)
	assert.Equal(t, 6, res.Steps)
	assert.Equal(t, "1111", res.Output)
}

func TestEngine_Extreme_LongInput(t *testing.T) {
	const n = 100_000
	m := domain.NewMachine(rule("0", '1', "0", 'x', domain.Right))
	m.Final = []domain.StateID{"0"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.TapeFromString(strings.Repeat("1", n)))
	require.NoError(t, err)

	assert.Equal(t, n, res.Steps)
	assert.Equal(t, strings.Repeat("x", n), res.Output)
	assert.Equal(t, 1, res.Acceptance)
}

func TestEngine_Extreme_UnboundedLeftWalk(t *testing.T) {
	m := domain.NewMachine(rule("0", '_', "0", 'y', domain.Left))

	res, err := runtime.NewEngine(runtime.WithMaxSteps(1000)).RunMachine(context.Background(), m, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusStepLimitExceeded, res.Status)
	assert.Equal(t, 0, res.Acceptance)
	assert.Equal(t, 1000, res.Steps)
	assert.Equal(t, 0, res.Head)
	assert.Equal(t, strings.Repeat("y", 1000), res.Output)
	assert.Equal(t, 1001, res.Tape.Len())
}

func TestEngine_Extreme_UnicodeSymbols(t *testing.T) {
	m := domain.NewMachine(rule("s", 'α', "s", 'β', domain.Right))
	m.Blank = '□'
	m.Initial = "s"
	m.Final = []domain.StateID{"s"}

	res, err := runtime.NewEngine().RunMachine(context.Background(), m, domain.ParseTape("ααα\n", m.Blank))
	require.NoError(t, err)

	assert.Equal(t, "βββ", res.Output)
	assert.Equal(t, 1, res.Acceptance)
}

func TestEngine_Extreme_SharedEngineConcurrentRuns(t *testing.T) {
	engine := runtime.NewEngine()
	m := unaryIncrement()
	table := runtime.BuildTable(m.Rules)

	const workers = 16
	outputs := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := engine.Run(context.Background(), m, table, domain.TapeFromString(strings.Repeat("1", i)))
			if err == nil {
				outputs[i] = res.Output
			}
		}(i)
	}
	wg.Wait()

	for i, out := range outputs {
		assert.Equal(t, strings.Repeat("1", i+1), out, "worker %d", i)
	}
}
