package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/go-drift/emojicache/cmd/emojicache/internal/cache"
	"github.com/go-drift/emojicache/pkg/emoji"
	"github.com/go-drift/emojicache/pkg/store"
)

func init() {
	RegisterCommand(&Command{
		Name:  "prune",
		Short: "Trim the cache directory",
		Long: `Delete the oldest cache blobs until the cache directory fits the limit.

Flags:
  --max-bytes N   Size limit in bytes (default: cache.max_bytes, 256 MiB)
  --stale         Also remove blobs written in older cache formats`,
		Usage: "emojicache prune [--max-bytes N] [--stale]",
		Run:   runPrune,
	})
}

func runPrune(args []string) error {
	maxBytes := settings.MaxBytes
	stale := false
	for i := 0; i < len(args); i++ {
		if args[i] == "--stale" {
			stale = true
			continue
		}
		value, ok, err := flagValue(args, &i, "--max-bytes")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown argument: %s", args[i])
		}
		if value == "0" {
			maxBytes = 0
			continue
		}
		if maxBytes, err = parsePositive("--max-bytes", value); err != nil {
			return err
		}
	}

	if stale {
		if err := pruneStale(); err != nil {
			return err
		}
	}

	dir, err := cache.BlobDir(emoji.CacheVersion)
	if err != nil {
		return err
	}
	blobs := store.NewFileStore(fsys, dir)
	removed, err := blobs.Prune(maxBytes)
	if err != nil {
		return err
	}
	var freed int64
	for _, e := range removed {
		freed += e.Size
	}
	usage, err := blobs.Usage()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Removed %d blobs (%d bytes); %d bytes remain in %s\n",
		len(removed), freed, usage, dir)
	return nil
}

func pruneStale() error {
	root, err := cache.Root()
	if err != nil {
		return err
	}
	blobsDir := filepath.Join(root, "blobs")
	entries, err := afero.ReadDir(fsys, blobsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", blobsDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	for _, name := range cache.StaleFormats(names, emoji.CacheVersion) {
		if err := fsys.RemoveAll(filepath.Join(blobsDir, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
		fmt.Fprintf(stdout, "Removed stale cache format %s\n", strings.TrimPrefix(name, "v"))
	}
	return nil
}
