// internal/report/store.go
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stampLayout = "20060102_150405.000000000"

// Writer persists formatted runs into a flat report directory.
// Reports are write-once; nothing ever mutates or deletes them.
type Writer struct {
	Dir string
	Now func() time.Time // injectable clock, defaults to time.Now
}

// NewWriter creates a writer rooted at dir, creating it if needed
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// Persist formats the run and writes it under a name embedding the
// target and a nanosecond timestamp. Files are created with O_EXCL and
// a numeric suffix is appended on collision, so two runs for the same
// target never overwrite each other even within one stamp.
func (w *Writer) Persist(run Run, hdr Header, logLines []string) (string, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	stamp := now().Format(stampLayout)
	body := []byte(Format(run, hdr, logLines))

	base := fmt.Sprintf("summary_%s_%s", run.Target, stamp)
	for seq := 0; ; seq++ {
		name := base + ".txt"
		if seq > 0 {
			name = fmt.Sprintf("%s_%d.txt", base, seq)
		}
		path := filepath.Join(w.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}

		if _, err := f.Write(body); err != nil {
			f.Close()
			return "", fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		return path, nil
	}
}

// List returns all report paths for a target, unordered
func List(dir, target string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, fmt.Sprintf("summary_%s_*.txt", target)))
}

// Latest returns the newest report for a target by modification time.
// An empty path means no report exists.
func Latest(dir, target string) (string, time.Time, error) {
	paths, err := List(dir, target)
	if err != nil {
		return "", time.Time{}, err
	}
	return newest(paths)
}

// LatestAny returns the newest report across all targets
func LatestAny(dir string) (string, time.Time, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "summary_*.txt"))
	if err != nil {
		return "", time.Time{}, err
	}
	return newest(paths)
}

func newest(paths []string) (string, time.Time, error) {
	var best string
	var bestTime time.Time
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(bestTime) {
			best = p
			bestTime = info.ModTime()
		}
	}
	return best, bestTime, nil
}
