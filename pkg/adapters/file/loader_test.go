package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	contract "github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementJSON = `{
  "white": "_",
  "initial": 0,
  "final": [1],
  "transitions": [
    {"from": 0, "read": "1", "to": 0, "write": "1", "dir": "R"},
    {"from": 0, "read": "_", "to": 1, "write": "1", "dir": "R"}
  ]
}`

const flipYAML = `initial: q0
final: [q0]
transitions:
  - {from: q0, read: a, to: q0, write: b, dir: R}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileLoader_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.json", incrementJSON)
	writeFile(t, dir, "flip.yaml", flipYAML)
	writeFile(t, dir, "README.txt", "not a machine")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	inc := domain.NewMachine(
		domain.Rule{From: "0", Read: '1', To: "0", Write: '1', Dir: domain.Right},
		domain.Rule{From: "0", Read: '_', To: "1", Write: '1', Dir: domain.Right},
	)
	inc.Final = []domain.StateID{"1"}

	flip := domain.NewMachine(domain.Rule{From: "q0", Read: 'a', To: "q0", Write: 'b', Dir: domain.Right})
	flip.Initial = "q0"
	flip.Final = []domain.StateID{"q0"}

	contract.MachineLoaderContract(t, file.NewLoader(dir), map[string]*domain.Machine{
		"inc":  inc,
		"flip": flip,
	})
}

func TestFileLoader_SetsID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.json", incrementJSON)

	m, err := file.NewLoader(dir).LoadMachine(context.Background(), "inc")
	require.NoError(t, err)
	assert.Equal(t, "inc", m.ID)
}

func TestFileLoader_StructuralError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"transitions": [{"from": 0}]}`)

	_, err := file.NewLoader(dir).LoadMachine(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrStructuralInput)
}

func TestFileLoader_RejectsTraversal(t *testing.T) {
	loader := file.NewLoader(t.TempDir())
	for _, id := range []string{"", "..", "../etc/passwd", `a\b`} {
		_, err := loader.LoadMachine(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound, id)
	}
}

func TestFileLoader_MissingDir(t *testing.T) {
	ids, err := file.NewLoader(filepath.Join(t.TempDir(), "nope")).ListMachines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadMachineFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flip.yml", flipYAML)

	m, err := file.LoadMachineFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("q0"), m.Initial)

	_, err = file.LoadMachineFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestReadTape(t *testing.T) {
	dir := t.TempDir()

	tape, err := file.ReadTape(writeFile(t, dir, "in.txt", "111\n"), '_')
	require.NoError(t, err)
	assert.Equal(t, "111", tape.String())

	tape, err = file.ReadTape(writeFile(t, dir, "empty.txt", ""), '_')
	require.NoError(t, err)
	assert.Equal(t, "_", tape.String())
}

func TestReadTape_RejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()

	_, err := file.ReadTape(writeFile(t, dir, "bad.txt", "a\xffb"), '_')
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidUTF8)

	_, err = file.ReadInput(writeFile(t, dir, "bad2.txt", "\xc3"))
	assert.ErrorIs(t, err, domain.ErrInvalidUTF8)

	text, err := file.ReadInput(writeFile(t, dir, "ok.txt", "αβ\n"))
	require.NoError(t, err)
	assert.Equal(t, "αβ\n", text)
}
