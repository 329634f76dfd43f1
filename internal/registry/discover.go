package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir holds registry files that are picked up when none are named explicitly.
var DefaultDir = filepath.Join(".apismoke", "endpoints")

// Discovered lists registry files in load order. Paths are relative to the root they were
// resolved against unless they live outside it.
type Discovered struct {
	Paths    []string
	Warnings []Warning
}

// Discover resolves which registry files to load. Explicit files keep their order, must
// exist and must carry a .yml or .yaml extension. Without explicit files DefaultDir is
// scanned; when it is missing or holds no registry files no paths are returned and the
// caller keeps the built-in registry.
func Discover(root string, explicit []string) (Discovered, error) {
	if len(explicit) > 0 {
		return discoverExplicit(root, explicit)
	}
	return scanDefaultDir(root)
}

func scanDefaultDir(root string) (Discovered, error) {
	entries, err := os.ReadDir(filepath.Join(root, DefaultDir))
	if errors.Is(err, fs.ErrNotExist) {
		return Discovered{}, nil
	}
	if err != nil {
		return Discovered{}, fmt.Errorf("read registry dir %q: %w", DefaultDir, err)
	}

	var found Discovered
	// ReadDir sorts by file name.
	for _, entry := range entries {
		if entry.IsDir() || !isRegistryFile(entry.Name()) {
			continue
		}
		found.Paths = append(found.Paths, filepath.Join(DefaultDir, entry.Name()))
	}
	if len(found.Paths) == 0 {
		found.Warnings = append(found.Warnings, Warning{
			Source:  DefaultDir,
			Message: "no .yml or .yaml files, using the built-in registry",
		})
	}
	return found, nil
}

func discoverExplicit(root string, explicit []string) (Discovered, error) {
	var found Discovered
	seen := make(map[string]bool, len(explicit))
	for _, input := range explicit {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !isRegistryFile(input) {
			return Discovered{}, fmt.Errorf("endpoint file %q must have a .yml or .yaml extension", input)
		}

		full := input
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, full)
		}
		full = filepath.Clean(full)

		info, err := os.Stat(full)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return Discovered{}, fmt.Errorf("endpoint file %q not found", input)
		case err != nil:
			return Discovered{}, fmt.Errorf("stat endpoint file %q: %w", input, err)
		case info.IsDir():
			return Discovered{}, fmt.Errorf("endpoint file %q is a directory", input)
		}

		if seen[full] {
			found.Warnings = append(found.Warnings, Warning{Source: input, Message: "listed more than once, loading it once"})
			continue
		}
		seen[full] = true
		found.Paths = append(found.Paths, displayPath(root, full))
	}
	return found, nil
}

func isRegistryFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// displayPath keeps paths under root short and leaves everything else absolute.
func displayPath(root, full string) string {
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return full
	}
	return rel
}
