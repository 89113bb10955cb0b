package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileExt = ".orbit"

// Store keeps saved worlds as JSON files, one per world, in a base directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Metadata is the cheap summary List returns without materializing a save.
type Metadata struct {
	Name     string
	Modified time.Time
	Bodies   int // at the stored origin
	Stored   int // stored (changed) snapshots
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, name+fileExt)
}

// Save writes sv to <name>.orbit under the base directory.
func (s *Store) Save(sv *Save) error {
	data, err := json.MarshalIndent(sv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save %q: %w", sv.Name, err)
	}
	return os.WriteFile(s.path(sv.Name), data, 0644)
}

// Load reads and fully materializes the named save, including the derived
// snapshots between stored entries.
func (s *Store) Load(name string) (*Save, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, err
	}
	var sv Save
	if err := json.Unmarshal(data, &sv); err != nil {
		return nil, fmt.Errorf("load save %q: %w", name, err)
	}
	return &sv, nil
}

// List scans the base directory for saves. Unreadable or malformed files are
// skipped rather than failing the whole listing.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	metas := make([]Metadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		// Decode the raw stored form only; re-stepping a long timeline just
		// to list it would be wasteful.
		var raw savedWorld
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		m := Metadata{
			Name:     strings.TrimSuffix(entry.Name(), fileExt),
			Modified: info.ModTime(),
			Stored:   len(raw.States),
		}
		if len(raw.States) > 0 {
			m.Bodies = len(raw.States[0].Bodies)
		}
		metas = append(metas, m)
	}
	return metas, nil
}
