// Package staging writes generator output into a temporary stage
// directory and promotes it atomically, so consumers pointed at the
// "current" directory never observe a half-written dataset.
package staging

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// CurrentDirName is the directory consumers read from after promotion
const CurrentDirName = "current"

// ManifestFileName is written into the stage before promotion
const ManifestFileName = "manifest.json"

// Stage is an in-progress output directory
type Stage struct {
	root  string
	dir   string
	runID string
}

// Manifest describes one completed generation run
type Manifest struct {
	RunID       string     `json:"run_id"`
	Seed        int64      `json:"seed"`
	Users       int        `json:"users"`
	Months      int        `json:"months"`
	WindowStart string     `json:"window_start"`
	WindowEnd   string     `json:"window_end"`
	CreatedAt   time.Time  `json:"created_at"`
	Files       []FileInfo `json:"files"`
}

// FileInfo records integrity metadata for one output file
type FileInfo struct {
	Name   string `json:"name"`
	Rows   int64  `json:"rows"`
	Bytes  int64  `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// RunMeta carries run parameters into the manifest
type RunMeta struct {
	Seed        int64
	Users       int
	Months      int
	WindowStart time.Time
	WindowEnd   time.Time
}

// New creates a fresh stage directory under root. Each run gets a
// unique ID so concurrent runs against the same root cannot collide.
func New(root string) (*Stage, error) {
	runID := uuid.NewString()
	dir := filepath.Join(root, "stage-"+runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stage directory: %w", err)
	}
	return &Stage{root: root, dir: dir, runID: runID}, nil
}

// Dir returns the directory generators should write into
func (s *Stage) Dir() string {
	return s.dir
}

// RunID returns the unique identifier for this run
func (s *Stage) RunID() string {
	return s.runID
}

// WriteManifest checksums every file in the stage and writes
// manifest.json alongside them. rowCounts maps file names (e.g.
// "transactions.csv") to their data row counts.
func (s *Stage) WriteManifest(meta RunMeta, rowCounts map[string]int64) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read stage directory: %w", err)
	}

	manifest := Manifest{
		RunID:       s.runID,
		Seed:        meta.Seed,
		Users:       meta.Users,
		Months:      meta.Months,
		WindowStart: meta.WindowStart.Format("2006-01-02"),
		WindowEnd:   meta.WindowEnd.Format("2006-01-02"),
		CreatedAt:   time.Now().UTC(),
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ManifestFileName {
			continue
		}
		info, err := fileInfo(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return err
		}
		info.Rows = rowCounts[entry.Name()]
		manifest.Files = append(manifest.Files, info)
	}
	sort.Slice(manifest.Files, func(i, j int) bool {
		return manifest.Files[i].Name < manifest.Files[j].Name
	})

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(s.dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Promote atomically replaces root/current with this stage. A previous
// current directory is removed after the swap.
func (s *Stage) Promote() error {
	current := filepath.Join(s.root, CurrentDirName)
	old := current + ".old-" + s.runID

	if _, err := os.Stat(current); err == nil {
		if err := os.Rename(current, old); err != nil {
			return fmt.Errorf("failed to move previous output aside: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", current, err)
	}

	if err := os.Rename(s.dir, current); err != nil {
		// Try to restore the previous output before bailing
		if _, statErr := os.Stat(old); statErr == nil {
			os.Rename(old, current)
		}
		return fmt.Errorf("failed to promote stage: %w", err)
	}

	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("failed to remove previous output: %w", err)
	}
	return nil
}

// Discard removes the stage directory. Call on failed runs.
func (s *Stage) Discard() error {
	return os.RemoveAll(s.dir)
}

// ReadManifest loads the manifest from a promoted output directory
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Verify recomputes checksums for every file listed in the manifest of
// dir and reports the first mismatch.
func Verify(dir string) error {
	m, err := ReadManifest(dir)
	if err != nil {
		return err
	}
	for _, f := range m.Files {
		info, err := fileInfo(filepath.Join(dir, f.Name))
		if err != nil {
			return err
		}
		if info.SHA256 != f.SHA256 {
			return fmt.Errorf("checksum mismatch for %s: manifest %s, actual %s",
				f.Name, f.SHA256, info.SHA256)
		}
		if info.Bytes != f.Bytes {
			return fmt.Errorf("size mismatch for %s: manifest %d bytes, actual %d",
				f.Name, f.Bytes, info.Bytes)
		}
	}
	return nil
}

// fileInfo computes size and SHA-256 for one file
func fileInfo(path string) (FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return FileInfo{
		Name:   filepath.Base(path),
		Bytes:  n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
