package cmd

import (
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/go-drift/emojicache/pkg/emoji"
)

func init() {
	RegisterCommand(&Command{
		Name:  "extract",
		Short: "Write every frame of a cache blob as PNG",
		Long: `Decode a cache blob and write each frame to DIR as frame_NNN.png.

Flags:
  --out DIR   Output directory (required)
  --size N    Expected frame size (default: the size in the header)`,
		Usage: "emojicache extract FILE --out DIR [--size N]",
		Run:   runExtract,
	})
}

func runExtract(args []string) error {
	file, out, size := "", "", 0
	for i := 0; i < len(args); i++ {
		if value, ok, err := flagValue(args, &i, "--out"); ok || err != nil {
			if err != nil {
				return err
			}
			out = value
			continue
		}
		if value, ok, err := flagValue(args, &i, "--size"); ok || err != nil {
			if err != nil {
				return err
			}
			n, err := parsePositive("--size", value)
			if err != nil {
				return err
			}
			size = int(n)
			continue
		}
		if strings.HasPrefix(args[i], "--") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		file = args[i]
	}
	if file == "" || out == "" {
		return fmt.Errorf("a blob and --out are required\n\nUsage: emojicache extract FILE --out DIR")
	}

	data, err := afero.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	if size == 0 {
		header, err := emoji.ReadHeader(data)
		if err != nil {
			return err
		}
		size = int(header.Size)
	}
	c, err := emoji.FromSerialized(data, size)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	for i := 0; i < c.Frames(); i++ {
		if err := writeFrame(filepath.Join(out, fmt.Sprintf("frame_%03d.png", i)), c.Frame(i)); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "Extracted %d frames to %s\n", c.Frames(), out)
	return nil
}

func writeFrame(path string, frame emoji.Frame) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, frame.SubImage()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
