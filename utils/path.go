package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SkipKeyword selects the default source when typed instead of a path.
const SkipKeyword = "skip"

// ResolveSource picks the path a user asked for. It returns the default path
// and false when the choice is "skip", empty, or does not exist on disk.
func ResolveSource(choice string, defaultPath string) (string, bool) {
	choice = strings.TrimSpace(choice)
	if choice == "" || strings.EqualFold(choice, SkipKeyword) {
		return defaultPath, true
	}
	if _, err := os.Stat(choice); err != nil {
		return defaultPath, false
	}
	return choice, true
}

// FilesWithExt lists regular files of dir whose extension is one of exts,
// sorted by name. Extensions are matched case-insensitively.
func FilesWithExt(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				result = append(result, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(result)
	return result, nil
}
