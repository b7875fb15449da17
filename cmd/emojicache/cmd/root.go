// Package cmd implements the emojicache CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (inspect, bake, extract, prune).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/go-drift/emojicache/cmd/emojicache/internal/cache"
	"github.com/go-drift/emojicache/cmd/emojicache/internal/config"
	"github.com/go-drift/emojicache/pkg/emoji"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "emojicache",
	Short: "emojicache - animated emoji frame caches",
	Long: `emojicache builds and maintains the serialized frame caches used to
play animated custom emoji without decoding them again.

Use "emojicache <command> --help" for more information about a command.`,
	Usage: "emojicache <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Process-wide state shared by the commands. Tests replace fsys and the
// writers.
var (
	fsys     afero.Fs  = afero.NewOsFs()
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	settings *config.Resolved
)

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	err := execute(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func execute(args []string) error {
	cache.SetGlobal(Version)

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --cache-dir and --config
	var filteredArgs []string
	configPath := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				printVersion()
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--cache-dir", "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a path", arg)
			}
			if arg == "--cache-dir" {
				cache.SetCacheDir(args[i+1])
			} else {
				configPath = args[i+1]
			}
			i++
		default:
			if v, ok := strings.CutPrefix(arg, "--cache-dir="); ok {
				cache.SetCacheDir(v)
				continue
			}
			if v, ok := strings.CutPrefix(arg, "--config="); ok {
				configPath = v
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	if err := loadSettings(configPath); err != nil {
		return err
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func loadSettings(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		dir, wdErr := os.Getwd()
		if wdErr != nil {
			return wdErr
		}
		cfg, err = config.LoadOptional(dir)
	}
	if err != nil {
		return err
	}
	resolved, err := config.Resolve(cfg)
	if err != nil {
		return err
	}
	settings = resolved
	cache.SetConfigDir(resolved.CacheDir)
	return nil
}

func printVersion() {
	release := cache.ReleaseVersion()
	if release == "" {
		release = "development build"
	}
	fmt.Fprintf(stdout, "emojicache version %s (%s, built %s, cache format %d)\n",
		Version, release, BuildTime, emoji.CacheVersion)
}

func printHelp(cmd *Command) {
	w := stdout
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --cache-dir DIR      Override cache directory (default: ~/.emojicache)")
	fmt.Fprintln(w, "  --config FILE        Read configuration from FILE (default: ./emojicache.yaml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  EMOJICACHE_DIR       Cache directory override (lower priority than --cache-dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  emojicache bake party.gif --size 64     Cache a GIF at 64px")
	fmt.Fprintln(w, "  emojicache inspect blob.cache           Show a cache header")
	fmt.Fprintln(w, "  emojicache prune --max-bytes 10000000   Trim the cache directory")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
