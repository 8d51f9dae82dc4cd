package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// machineExts are probed in order; the first match wins.
var machineExts = []string{".json", ".yaml", ".yml"}

// Loader implements ports.MachineLoader over a directory of JSON/YAML
// machine documents. The machine ID is the file name without extension.
type Loader struct {
	Dir    string
	parser *compiler.Parser
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, parser: compiler.NewParser()}
}

// LoadMachine reads and compiles the document for id.
func (l *Loader) LoadMachine(ctx context.Context, id string) (*domain.Machine, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, id)
	}

	for _, ext := range machineExts {
		path := filepath.Join(l.Dir, id+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read machine %s: %w", id, err)
		}

		m, err := l.parser.Parse(data, compiler.FormatFromPath(path))
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", id, err)
		}
		m.ID = id
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, id)
}

// ListMachines returns the IDs of every machine document in the directory.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !isMachineExt(ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func isMachineExt(ext string) bool {
	for _, e := range machineExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// LoadMachineFile compiles the machine document at path. The format is
// chosen by extension.
func LoadMachineFile(path string) (*domain.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine document: %w", err)
	}
	m, err := compiler.Parse(data, compiler.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadInput reads the raw text of an input tape file. Files that are not
// valid UTF-8 are rejected with domain.ErrInvalidUTF8.
func ReadInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read tape: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrInvalidUTF8)
	}
	return string(data), nil
}

// ReadTape reads an input tape file, stripping one trailing line terminator.
func ReadTape(path string, blank domain.Symbol) (*domain.Tape, error) {
	text, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	return domain.ParseTape(text, blank), nil
}
