package freestyle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/yacobolo/freestyle/internal/stylesheet"
)

// ScanStats tracks stylesheet discovery.
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually parsed
	FilesSkipped    int // Files skipped by .gitignore or read errors
	// Warnings describe skipped files and empty patterns.
	Warnings []string
}

// loadGitIgnore compiles dir/.gitignore. A missing file means nothing is
// ignored.
func loadGitIgnore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// expandIncludes expands cfg.Includes under cfg.SourceDir, skipping
// directories, duplicates and gitignored files.
func expandIncludes(cfg Config) ([]string, ScanStats, error) {
	var files []string
	var stats ScanStats
	seen := make(map[string]bool)

	var gi *ignore.GitIgnore
	if cfg.RespectGitignore {
		gi = loadGitIgnore(cfg.SourceDir)
	}

	for _, pattern := range cfg.Includes {
		matches, err := doublestar.FilepathGlob(filepath.Join(cfg.SourceDir, pattern))
		if err != nil {
			return nil, stats, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("pattern %q matched no files", pattern))
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if gi != nil {
				if rel, err := filepath.Rel(cfg.SourceDir, match); err == nil && gi.MatchesPath(filepath.ToSlash(rel)) {
					stats.FilesSkipped++
					stats.Warnings = append(stats.Warnings, fmt.Sprintf("skipped %s (gitignored)", match))
					continue
				}
			}
			files = append(files, match)
		}
	}
	return files, stats, nil
}

// LoadStylesheets parses every stylesheet matched by cfg.Includes under
// cfg.SourceDir. Stylesheets are indexed in discovery order. Unreadable
// files are skipped with a warning.
func LoadStylesheets(cfg Config) ([]*stylesheet.Stylesheet, ScanStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, ScanStats{}, fmt.Errorf("invalid config: %w", err)
	}
	files, stats, err := expandIncludes(cfg)
	if err != nil {
		return nil, stats, err
	}
	origin, _ := stylesheet.ParseOrigin(cfg.Origin)
	log := cfg.logger()

	var sheets []*stylesheet.Stylesheet
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			stats.FilesSkipped++
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("skipped %s: %v", file, err))
			log.Warn("skipping stylesheet", zap.String("file", file), zap.Error(err))
			continue
		}
		sheets = append(sheets, parseSheet(file, string(src), origin, len(sheets), log))
		stats.FilesScanned++
	}
	log.Debug("loaded stylesheets",
		zap.Int("discovered", stats.FilesDiscovered),
		zap.Int("scanned", stats.FilesScanned),
		zap.Int("skipped", stats.FilesSkipped))
	return sheets, stats, nil
}

// LoadFiles parses the named stylesheets in order. Unlike LoadStylesheets
// it fails on the first unreadable file and ignores .gitignore.
func LoadFiles(paths []string, cfg Config) ([]*stylesheet.Stylesheet, ScanStats, error) {
	origin, err := stylesheet.ParseOrigin(cfg.Origin)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("invalid config: %w", err)
	}
	var stats ScanStats
	sheets := make([]*stylesheet.Stylesheet, 0, len(paths))
	for i, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, stats, fmt.Errorf("reading stylesheet: %w", err)
		}
		sheets = append(sheets, parseSheet(path, string(src), origin, i, cfg.logger()))
		stats.FilesDiscovered++
		stats.FilesScanned++
	}
	return sheets, stats, nil
}

// ParseStylesheet parses src as the index-th stylesheet with the
// configured origin.
func ParseStylesheet(name, src string, index int, cfg Config) (*stylesheet.Stylesheet, error) {
	origin, err := stylesheet.ParseOrigin(cfg.Origin)
	if err != nil {
		return nil, err
	}
	return parseSheet(name, src, origin, index, cfg.logger()), nil
}

func parseSheet(name, src string, origin stylesheet.Origin, index int, log *zap.Logger) *stylesheet.Stylesheet {
	return stylesheet.Parse(src, stylesheet.ParseOptions{
		Name:   name,
		Origin: origin,
		Index:  index,
		Logger: log,
	})
}
