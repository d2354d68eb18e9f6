package input

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wealthpath/wealthpath/internal/model"
)

// DiscoveredFile is a summary file found by ScanDir.
type DiscoveredFile struct {
	Path string
	// Name is the path relative to the scanned root without its extension,
	// with separators replaced by "/". It is used as the scenario name.
	Name string
}

// ParseResult holds the outcome of loading one discovered file.
type ParseResult struct {
	File    DiscoveredFile
	Summary model.CashFlowSummary
	Err     error
}

// ScanDir walks dir and returns every summary file it can load, ordered by
// name. A missing directory yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !supportedExt(filepath.Ext(path)) {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		name := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		files = append(files, DiscoveredFile{Path: path, Name: name})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, err
}

// ParseFile loads a discovered file.
func ParseFile(f DiscoveredFile) ParseResult {
	s, err := LoadSummary(f.Path)
	return ParseResult{File: f, Summary: s, Err: err}
}

func supportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}
