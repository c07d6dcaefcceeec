// Package file provides a FlowLoader over the local filesystem.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/onboard/pkg/domain"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.FlowLoader over a directory of flow documents.
// The flow name is the file name without its extension.
type Loader struct {
	BasePath string
}

// NewLoader creates a Loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{BasePath: basePath}
}

// GetFlow reads <name>.yaml, <name>.yml or <name>.json, in that order.
func (l *Loader) GetFlow(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrFlowNotFound, name)
	}
	for _, ext := range extensions {
		data, err := os.ReadFile(filepath.Join(l.BasePath, name+ext))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read flow %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrFlowNotFound, name)
}

// ListFlows returns the names of the flow documents in the directory.
func (l *Loader) ListFlows() ([]string, error) {
	entries, err := os.ReadDir(l.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isFlowExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isFlowExt(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
