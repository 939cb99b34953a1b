package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"flowbuilder/internal/adapters/hclflow"
	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
	"flowbuilder/internal/ports"
)

const ext = ".hcl"

// Store implements ports.FlowStore as a directory holding one HCL file per flow.
// Files are written in the hclflow format so they can be edited by hand.
type Store struct {
	dir string
}

var _ ports.FlowStore = (*Store)(nil)

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[1:])
	}
	return &Store{dir: dir}
}

// Dir returns the directory flows are kept in
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid flow name %q", application.ErrInvalidID, name)
	}
	return filepath.Join(s.dir, name+ext), nil
}

// SaveFlow writes the flow to a temporary file and renames it over the old one
func (s *Store) SaveFlow(ctx context.Context, flow domain.Flow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(flow.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create flow directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+flow.Name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(hclflow.Encode(flow)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write flow: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write flow: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace flow: %w", err)
	}
	if !flow.SavedAt.IsZero() {
		if err := os.Chtimes(path, flow.SavedAt, flow.SavedAt); err != nil {
			return fmt.Errorf("failed to stamp flow: %w", err)
		}
	}
	return nil
}

// LoadFlow reads a flow back. SavedAt is the file's modification time.
func (s *Store) LoadFlow(ctx context.Context, name string) (domain.Flow, error) {
	if err := ctx.Err(); err != nil {
		return domain.Flow{}, err
	}
	path, err := s.path(name)
	if err != nil {
		return domain.Flow{}, err
	}
	return s.read(path, name)
}

func (s *Store) read(path, name string) (domain.Flow, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Flow{}, &application.NotFoundError{Kind: "flow", ID: name}
	}
	if err != nil {
		return domain.Flow{}, err
	}

	flows, err := hclflow.LoadFile(path)
	if err != nil {
		return domain.Flow{}, err
	}
	flow, ok := hclflow.Find(flows, name)
	if !ok {
		return domain.Flow{}, fmt.Errorf("%s does not define flow %q", filepath.Base(path), name)
	}
	flow.SavedAt = info.ModTime().UTC()
	return flow, nil
}

// ListFlows returns a summary of every flow file, by name
func (s *Store) ListFlows(ctx context.Context) ([]domain.FlowSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flow directory: %w", err)
	}

	var out []domain.FlowSummary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, ok := strings.CutSuffix(entry.Name(), ext)
		if entry.IsDir() || !ok || strings.HasPrefix(name, ".") {
			continue
		}
		flow, err := s.read(filepath.Join(s.dir, entry.Name()), name)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", name, err)
		}
		out = append(out, domain.FlowSummary{
			Name:    name,
			SavedAt: flow.SavedAt,
			Nodes:   len(flow.Nodes),
			Edges:   len(flow.Edges),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DeleteFlow removes the flow's file
func (s *Store) DeleteFlow(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &application.NotFoundError{Kind: "flow", ID: name}
	}
	return err
}
