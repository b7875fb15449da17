package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/go-drift/emojicache/pkg/emoji"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Show the header of cache blobs and validate them",
		Long: `Print the header of each cache blob and check it the way the player
does before using it: header bounds, total length and a full decompression.

Flags:
  --size N   Validate against frame size N (default: the size in the header)`,
		Usage: "emojicache inspect FILE... [--size N]",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	var files []string
	size := 0
	for i := 0; i < len(args); i++ {
		value, ok, err := flagValue(args, &i, "--size")
		if err != nil {
			return err
		}
		if ok {
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
		files = append(files, args[i])
	}
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required\n\nUsage: emojicache inspect FILE...")
	}

	invalid := 0
	for _, file := range files {
		if !inspectFile(file, size) {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d blobs are invalid", invalid, len(files))
	}
	return nil
}

func inspectFile(file string, size int) bool {
	data, err := afero.ReadFile(fsys, file)
	if err != nil {
		fmt.Fprintf(stdout, "%s: %v\n", file, err)
		return false
	}
	fmt.Fprintf(stdout, "%s:\n", file)
	header, err := emoji.ReadHeader(data)
	if err != nil {
		fmt.Fprintf(stdout, "  invalid: %v\n", err)
		return false
	}
	fmt.Fprintf(stdout, "  version  %d\n", header.Version)
	fmt.Fprintf(stdout, "  size     %dx%d\n", header.Size, header.Size)
	fmt.Fprintf(stdout, "  frames   %d\n", header.Frames)
	fmt.Fprintf(stdout, "  payload  %d bytes (%d total)\n", header.Length, len(data))

	if size == 0 {
		size = int(header.Size)
	}
	cache, err := emoji.FromSerialized(data, size)
	if err != nil {
		fmt.Fprintf(stdout, "  invalid: %v\n", err)
		return false
	}
	var total int64
	for i := 0; i < cache.Frames(); i++ {
		total += cache.Duration(i)
	}
	raw := int64(cache.Size()) * int64(cache.Size()) * int64(cache.Frames()) * 4
	fmt.Fprintf(stdout, "  loop     %d ms\n", total)
	fmt.Fprintf(stdout, "  ratio    %.1f%%\n", 100*float64(header.Length)/float64(raw))
	fmt.Fprintln(stdout, "  valid")
	return true
}
