// Package cache provides cache directory resolution for the emojicache CLI.
//
// Priority order: --cache-dir flag > EMOJICACHE_DIR env > emojicache.yaml >
// ~/.emojicache default.
//
// Blobs live under <root>/blobs/v<format>, one directory per serialized
// cache format, so caches written by an older format are never read back.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// EnvDir is the environment variable overriding the cache directory.
const EnvDir = "EMOJICACHE_DIR"

var global struct {
	version   string
	cacheDir  string
	configDir string
}

// SetGlobal records the CLI version. It should be called at startup.
func SetGlobal(version string) {
	global.version = NormalizeVersion(version)
}

// ReleaseVersion returns the normalized CLI version, or empty for
// development builds.
func ReleaseVersion() string {
	return global.version
}

// NormalizeVersion returns a canonical release version, or empty if the
// version is not a release (dev builds, pseudo-versions from go install).
// Explicit prerelease tags (v0.2.0-rc1) are allowed.
//
// Examples:
//
//	"v0.1.0"                          -> "v0.1.0"
//	"0.1.0"                           -> "v0.1.0"
//	"emojicache-v0.1.0"               -> "v0.1.0"
//	"v0.2.0-rc1"                      -> "v0.2.0-rc1"
//	"0.1.0-dev"                       -> ""
//	"v0.2.1-0.20260122153045-abc123"  -> ""
func NormalizeVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "emojicache-")
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) || strings.HasSuffix(version, "-dev") || module.IsPseudoVersion(version) {
		return ""
	}
	// semver accepts v1 and v1.2 as shorthands; releases spell out X.Y.Z.
	base := strings.TrimSuffix(version, semver.Prerelease(version)+semver.Build(version))
	if strings.Count(base, ".") != 2 {
		return ""
	}
	return semver.Canonical(version)
}

// SetCacheDir sets the --cache-dir override.
func SetCacheDir(dir string) {
	global.cacheDir = dir
}

// SetConfigDir sets the directory configured in emojicache.yaml.
func SetConfigDir(dir string) {
	global.configDir = dir
}

// Root returns the cache root directory.
func Root() (string, error) {
	if global.cacheDir != "" {
		return global.cacheDir, nil
	}
	if envDir := os.Getenv(EnvDir); envDir != "" {
		return envDir, nil
	}
	if global.configDir != "" {
		return global.configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".emojicache"), nil
}

// FormatDir returns the directory name for a blob format version.
func FormatDir(format int) string {
	return "v" + strconv.Itoa(format)
}

// BlobDir returns <root>/blobs/v<format>.
func BlobDir(format int) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "blobs", FormatDir(format)), nil
}

// StaleFormats returns the entries of names that are format directories
// older than format, oldest first.
func StaleFormats(names []string, format int) []string {
	current := FormatDir(format)
	var stale []string
	for _, name := range names {
		if semver.IsValid(name) && semver.Compare(name, current) < 0 {
			stale = append(stale, name)
		}
	}
	semver.Sort(stale)
	return stale
}
