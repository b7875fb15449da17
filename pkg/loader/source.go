package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Source fetches the encoded animation for an entity.
type Source interface {
	Fetch(ctx context.Context, entityData string) ([]byte, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, entityData string) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context, entityData string) ([]byte, error) {
	return f(ctx, entityData)
}

// FileSource reads entities as relative paths below Root.
type FileSource struct {
	Fs   afero.Fs
	Root string
}

func (s FileSource) Fetch(ctx context.Context, entityData string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := filepath.Clean(filepath.FromSlash(entityData))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("loader: entity %q escapes the source root", entityData)
	}
	fsys := s.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, filepath.Join(s.Root, rel))
	if err != nil {
		return nil, fmt.Errorf("loader: read source: %w", err)
	}
	return data, nil
}
