package vectorstore

// PeerProfile is an anonymized record of a struggle someone shared,
// embedded for semantic matching. Embeddings never leave the process;
// persistence stores text only and vectors are regenerated on load.
type PeerProfile struct {
	ProfileID          string         `json:"profile_id"`
	Embedding          []float32      `json:"-"`
	StruggleText       string         `json:"struggle_text"`
	AcademicStage      string         `json:"academic_stage,omitempty"`
	ResearchArea       string         `json:"research_area,omitempty"`
	AnonymizedMetadata map[string]any `json:"anonymized_metadata,omitempty"`
}

// MatchResult is one peer surfaced by a similarity search.
type MatchResult struct {
	ProfileID           string  `json:"profile_id"`
	SimilarityScore     float64 `json:"similarity_score"`
	MatchReason         string  `json:"match_reason"`
	SuggestedConnection bool    `json:"suggested_connection"`
}

// Stats is a point-in-time snapshot of store state.
type Stats struct {
	TotalProfiles      int    `json:"total_profiles"`
	TotalEmbeddings    int    `json:"total_embeddings"`
	UsingIndex         bool   `json:"using_index"`
	PersistencePath    string `json:"persistence_path"`
	AdditionsSinceSave int    `json:"additions_since_save"`
}
