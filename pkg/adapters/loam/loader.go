package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Loader adapts a Loam repository to the ports.MachineLoader interface.
// Each document is one machine: front matter holds the description, the
// Markdown body is kept as prose.
type Loader struct {
	Repo   *loam.TypedRepository[MachineMetadata]
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[MachineMetadata]) *Loader {
	return &Loader{
		Repo:   repo,
		parser: compiler.NewParser(),
	}
}

// LoadMachine retrieves and compiles a machine document.
// Loam resolves "inc" to inc.md, inc.json, etc.
func (l *Loader) LoadMachine(ctx context.Context, id string) (*domain.Machine, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMachineNotFound, id, err)
	}

	m, err := l.parser.ParseMap(doc.Data.document(strings.TrimSpace(doc.Content)))
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", id, err)
	}

	rawID := doc.Data.ID
	if rawID == "" {
		rawID = doc.ID
	}
	m.ID = trimExtension(rawID)
	return m, nil
}

// ListMachines lists all machines in the repository.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[MachineMetadata](repo)), nil
}
