// Package images lists recent detection frames from the capture folder.
// The folder is written by the detection process; we only ever read it,
// so a missing or empty folder is a normal state, not an error.
package images

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one detection frame on disk.
type Entry struct {
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size_bytes"`
}

// Scanner lists image files in a single folder, newest first.
type Scanner struct {
	dir    string
	logger *slog.Logger
}

func NewScanner(dir string, logger *slog.Logger) *Scanner {
	return &Scanner{dir: dir, logger: logger}
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Recent returns up to limit image files sorted by modification time,
// newest first. A missing folder yields an empty list.
func (s *Scanner) Recent(limit int) ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("images folder missing, serving empty list", "dir", s.dir)
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Racing a concurrent delete; skip the file.
			s.logger.Warn("failed to stat image", "name", e.Name(), "error", err)
			continue
		}
		out = append(out, Entry{
			Name:     e.Name(),
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Modified.After(out[j].Modified)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
