package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/adalundhe/kindred/core/embedding"
)

// seedRecord is the on-disk shape of a curated seed profile. Unlike the
// persistence format, emotional tags sit at the top level.
type seedRecord struct {
	ProfileID     string   `json:"profile_id"`
	StruggleText  string   `json:"struggle_text"`
	AcademicStage string   `json:"academic_stage,omitempty"`
	ResearchArea  string   `json:"research_area,omitempty"`
	EmotionalTags []string `json:"emotional_tags,omitempty"`
}

// LoadFromJSON bulk-loads curated seed profiles, generating an
// embedding for each. Deduplication is skipped since seed files are
// assumed curated. Returns the number of profiles added.
func (s *Store) LoadFromJSON(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("vectorstore: read seed file: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("vectorstore: decode seed file: %w", err)
	}

	profiles := make([]PeerProfile, 0, len(records))
	for _, record := range records {
		vec, err := s.embedder.Embed(ctx, record.StruggleText, embedding.TaskDocument)
		if err != nil {
			return 0, fmt.Errorf("vectorstore: embed seed profile %s: %w", record.ProfileID, err)
		}

		tags := record.EmotionalTags
		if tags == nil {
			tags = []string{}
		}

		profiles = append(profiles, PeerProfile{
			ProfileID:     record.ProfileID,
			Embedding:     vec,
			StruggleText:  record.StruggleText,
			AcademicStage: record.AcademicStage,
			ResearchArea:  record.ResearchArea,
			AnonymizedMetadata: map[string]any{
				"emotional_tags": tags,
			},
		})
	}

	added := s.AddBatch(profiles, true)
	s.logger.Info("seed load complete", "path", path, "added", added)
	return added, nil
}
