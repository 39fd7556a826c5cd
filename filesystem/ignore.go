package filesystem

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Ignorer decides which directories the watcher skips, based on default
// patterns and .gitignore.
type Ignorer struct {
	patterns []string
}

// NewIgnorer creates a new Ignorer and loads patterns from .gitignore if present.
func NewIgnorer(root string) *Ignorer {
	ign := &Ignorer{
		patterns: []string{
			"bin",
			"obj",
			".git",
			".vs",
			"packages",
			"TestResults",
		},
	}

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ign.patterns = append(ign.patterns, line)
		}
	}
	return ign
}

// ShouldIgnore checks if the given path should be ignored.
// It checks against the file name (basename) and the relative path.
func (i *Ignorer) ShouldIgnore(path string, root string) bool {
	name := filepath.Base(path)
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = name
	}

	for _, p := range i.patterns {
		cleanP := strings.TrimSuffix(p, "/")

		// Anchored patterns match against the relative path only.
		if strings.HasPrefix(cleanP, "/") {
			cleanP = strings.TrimPrefix(cleanP, "/")
			if relPath == cleanP || strings.HasPrefix(relPath, cleanP+string(os.PathSeparator)) {
				return true
			}
			continue
		}

		if matched, _ := filepath.Match(cleanP, name); matched {
			return true
		}

		if relPath == cleanP || strings.HasPrefix(relPath, cleanP+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
