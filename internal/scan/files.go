package scan

import (
	"os"
	"path/filepath"
	"strings"

	"archmap/internal/paths"
)

// EnumerateOptions bounds file enumeration
type EnumerateOptions struct {
	IgnoreDirs       []string // directory names to skip entirely
	MaxFileSizeBytes int64    // per-file read bound; <=0 means DefaultMaxFileSize
	MaxFiles         int      // total file bound; <=0 means DefaultMaxFiles
}

const (
	// DefaultMaxFileSize bounds a single file read so one pathological file
	// cannot stall a scan.
	DefaultMaxFileSize = 1 << 20 // 1 MiB
	// DefaultMaxFiles bounds a whole enumeration
	DefaultMaxFiles = 10000
)

// defaultIgnoreDirs are skipped in addition to caller-supplied ignores:
// build output, dependency directories, VCS metadata.
var defaultIgnoreDirs = map[string]bool{
	"node_modules": true, ".git": true, "dist": true, "build": true,
	"vendor": true, "target": true, "__pycache__": true, ".next": true,
	".venv": true, "venv": true, "coverage": true, ".archmap": true,
}

// binaryExts are never read as source text
var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".a": true, ".o": true, ".obj": true, ".wasm": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true, ".woff": true, ".woff2": true, ".ttf": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".bz2": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".class": true, ".pyc": true, ".lock": true,
}

// EnumerateFiles walks the project root and reads every source file within
// bounds. Unreadable files are recorded as warnings and skipped, never fatal
// to the run.
func EnumerateFiles(root string, opts EnumerateOptions) ([]SourceFile, []Warning, error) {
	maxSize := opts.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	ignore := make(map[string]bool, len(defaultIgnoreDirs)+len(opts.IgnoreDirs))
	for dir := range defaultIgnoreDirs {
		ignore[dir] = true
	}
	for _, dir := range opts.IgnoreDirs {
		ignore[dir] = true
	}

	var files []SourceFile
	var warnings []Warning

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			warnings = append(warnings, Warning{File: path, Message: "unreadable: " + walkErr.Error()})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path != root && ignore[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(files) >= maxFiles {
			return filepath.SkipAll
		}
		if binaryExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if info.Size() > maxSize {
			warnings = append(warnings, Warning{File: path, Message: "skipped: exceeds size bound"})
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			warnings = append(warnings, Warning{File: path, Message: "unreadable: " + readErr.Error()})
			return nil
		}
		rel, pathErr := paths.CanonicalizePath(path, root)
		if pathErr != nil {
			rel = filepath.ToSlash(path)
		}
		files = append(files, SourceFile{Path: rel, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}
	return files, warnings, nil
}

// hasExt reports whether a path carries one of the given extensions
func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// baseName returns the final path element
func baseName(path string) string {
	return filepath.Base(path)
}
