package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/go-drift/emojicache/cmd/emojicache/internal/cache"
	"github.com/go-drift/emojicache/pkg/emoji"
	"github.com/go-drift/emojicache/pkg/frames"
	"github.com/go-drift/emojicache/pkg/store"
)

func init() {
	RegisterCommand(&Command{
		Name:  "bake",
		Short: "Decode an image or GIF into a cache blob",
		Long: `Decode an image or animated GIF and write its serialized frame cache.

Without --out the blob is stored in the cache directory under the key of
the entity, which defaults to the input file name.

Flags:
  --size N        Frame edge in pixels (default: render.size, 100)
  --out FILE      Write the blob to FILE instead of the cache directory
  --entity NAME   Entity data used for the cache key`,
		Usage: "emojicache bake INPUT [--size N] [--out FILE] [--entity NAME]",
		Run:   runBake,
	})
}

type bakeOptions struct {
	input  string
	size   int
	out    string
	entity string
}

func runBake(args []string) error {
	opts := bakeOptions{size: settings.Size}
	for i := 0; i < len(args); i++ {
		if value, ok, err := flagValue(args, &i, "--size"); ok || err != nil {
			if err != nil {
				return err
			}
			n, err := parsePositive("--size", value)
			if err != nil {
				return err
			}
			opts.size = int(n)
			continue
		}
		if value, ok, err := flagValue(args, &i, "--out"); ok || err != nil {
			if err != nil {
				return err
			}
			opts.out = value
			continue
		}
		if value, ok, err := flagValue(args, &i, "--entity"); ok || err != nil {
			if err != nil {
				return err
			}
			opts.entity = value
			continue
		}
		if strings.HasPrefix(args[i], "--") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		if opts.input != "" {
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
		opts.input = args[i]
	}
	if opts.input == "" {
		return fmt.Errorf("input file is required\n\nUsage: emojicache bake INPUT")
	}
	if opts.entity == "" {
		opts.entity = filepath.Base(opts.input)
	}
	return bake(opts)
}

func bake(opts bakeOptions) error {
	data, err := afero.ReadFile(fsys, opts.input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	gen, err := frames.NewGenerator(data)
	if err != nil {
		return err
	}
	c, err := emoji.Bake(gen, opts.size)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", opts.input, err)
	}
	blob, err := c.Serialize()
	if err != nil {
		return err
	}

	dest := opts.out
	if dest == "" {
		dir, err := cache.BlobDir(emoji.CacheVersion)
		if err != nil {
			return err
		}
		key := store.Key(opts.entity, opts.size)
		if err := store.NewFileStore(fsys, dir).Put(key, blob); err != nil {
			return err
		}
		dest = filepath.Join(dir, key[:2], key)
	} else if err := afero.WriteFile(fsys, dest, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	fmt.Fprintf(stdout, "Baked %s: %d frames at %dx%d, %d bytes -> %s\n",
		opts.input, c.Frames(), opts.size, opts.size, len(blob), dest)
	return nil
}
