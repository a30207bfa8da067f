package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persistence saves and loads peer profiles. Implementations must not
// persist embedding vectors.
type Persistence interface {
	Save(profiles []PeerProfile, path string) error
	Load(path string) ([]PeerProfile, error)
}

// JSONFilePersistence stores profiles as a JSON array on disk, written
// through a temp file so a crashed save never truncates the store.
type JSONFilePersistence struct{}

func (JSONFilePersistence) Save(profiles []PeerProfile, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("vectorstore: create persistence dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("vectorstore: encode profiles: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("vectorstore: write profiles: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("vectorstore: replace profiles file: %w", err)
	}
	return nil
}

func (JSONFilePersistence) Load(path string) ([]PeerProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: read profiles: %w", err)
	}

	var profiles []PeerProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("vectorstore: decode profiles: %w", err)
	}
	return profiles, nil
}
