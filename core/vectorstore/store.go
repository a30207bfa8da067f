// Package vectorstore implements the in-memory semantic store used for
// peer matching. Profiles are embedded structs of anonymized struggle
// text; search runs over a flat inner-product index with a linear-scan
// fallback that ranks identically.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adalundhe/kindred/core/embedding"
)

const (
	DefaultTopK              = 5
	DefaultThreshold         = 0.7
	DefaultMinStruggleLength = 20
	DefaultDedupThreshold    = 0.95
	DefaultAutoSaveInterval  = 10

	loadBatchSize = 3
)

// Config holds store construction settings.
type Config struct {
	Embedder        embedding.Embedder
	PersistencePath string
	Persistence     Persistence

	TopK              int
	Threshold         float64
	MinStruggleLength int
	DedupThreshold    float64
	AutoSaveInterval  int

	// CaptureUserData gates AddFromSession. Off by default so live
	// conversations are never stored without explicit opt-in.
	CaptureUserData bool

	Logger *slog.Logger
}

func applyConfigDefaults(config Config) Config {
	if config.Persistence == nil {
		config.Persistence = JSONFilePersistence{}
	}
	if config.TopK == 0 {
		config.TopK = DefaultTopK
	}
	if config.Threshold == 0 {
		config.Threshold = DefaultThreshold
	}
	if config.MinStruggleLength == 0 {
		config.MinStruggleLength = DefaultMinStruggleLength
	}
	if config.DedupThreshold == 0 {
		config.DedupThreshold = DefaultDedupThreshold
	}
	if config.AutoSaveInterval == 0 {
		config.AutoSaveInterval = DefaultAutoSaveInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// Store holds peer profiles and serves similarity searches. All state
// transitions happen under one mutex so profiles, embeddings, ids and
// the index never drift apart.
type Store struct {
	mu sync.Mutex

	profiles   map[string]PeerProfile
	embeddings [][]float32
	ids        []string
	index      *flatIndex
	useIndex   bool

	embedder    embedding.Embedder
	persistence Persistence
	path        string

	topK              int
	threshold         float64
	minStruggleLength int
	dedupThreshold    float64
	autoSaveInterval  int
	captureUserData   bool

	additionsSinceSave int
	persistedLoaded    bool

	logger *slog.Logger
}

func NewStore(config Config) *Store {
	config = applyConfigDefaults(config)

	return &Store{
		profiles:          map[string]PeerProfile{},
		embedder:          config.Embedder,
		persistence:       config.Persistence,
		path:              config.PersistencePath,
		topK:              config.TopK,
		threshold:         config.Threshold,
		minStruggleLength: config.MinStruggleLength,
		dedupThreshold:    config.DedupThreshold,
		autoSaveInterval:  config.AutoSaveInterval,
		captureUserData:   config.CaptureUserData,
		useIndex:          true,
		logger:            config.Logger,
	}
}

// Add inserts a profile. It reports false when the profile fails
// validation or duplicates an existing entry.
func (s *Store) Add(profile PeerProfile, skipDedup bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(profile, skipDedup, true)
}

// AddBatch inserts profiles one by one and saves once at the end.
// Returns the number actually added.
func (s *Store) AddBatch(profiles []PeerProfile, skipDedup bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, profile := range profiles {
		if s.addLocked(profile, skipDedup, false) {
			added++
		}
	}

	s.logger.Info("batch add complete",
		"added", added,
		"skipped", len(profiles)-added,
	)

	if added > 0 {
		s.saveLocked()
		s.additionsSinceSave = 0
	}
	return added
}

func (s *Store) addLocked(profile PeerProfile, skipDedup, autosave bool) bool {
	if !s.validateLocked(profile) {
		return false
	}

	if !skipDedup && s.isDuplicateLocked(profile) {
		s.logger.Debug("rejected duplicate profile", "profile_id", profile.ProfileID)
		return false
	}

	s.profiles[profile.ProfileID] = profile
	s.embeddings = append(s.embeddings, profile.Embedding)
	s.ids = append(s.ids, profile.ProfileID)

	s.rebuildIndexLocked()

	if autosave {
		s.additionsSinceSave++
		if s.additionsSinceSave >= s.autoSaveInterval {
			s.saveLocked()
			s.additionsSinceSave = 0
		}
	}
	return true
}

func (s *Store) validateLocked(profile PeerProfile) bool {
	if len(strings.TrimSpace(profile.StruggleText)) < s.minStruggleLength {
		s.logger.Debug("rejected profile, struggle text too short", "profile_id", profile.ProfileID)
		return false
	}

	if len(profile.Embedding) == 0 {
		s.logger.Debug("rejected profile, no embedding", "profile_id", profile.ProfileID)
		return false
	}

	if len(s.embeddings) > 0 && len(profile.Embedding) != len(s.embeddings[0]) {
		s.logger.Warn("rejected profile, embedding dimension mismatch",
			"profile_id", profile.ProfileID,
			"got", len(profile.Embedding),
			"want", len(s.embeddings[0]),
		)
		return false
	}
	return true
}

func (s *Store) isDuplicateLocked(profile PeerProfile) bool {
	for _, existing := range s.embeddings {
		if embedding.Cosine(profile.Embedding, existing) >= s.dedupThreshold {
			return true
		}
	}
	return false
}

func (s *Store) rebuildIndexLocked() {
	if !s.useIndex || len(s.embeddings) == 0 {
		return
	}

	index, err := buildFlatIndex(s.embeddings)
	if err != nil {
		s.logger.Error("index build failed, using linear scan", "error", err)
		s.index = nil
		s.useIndex = false
		return
	}
	s.index = index
}

// Search embeds queryText and returns up to topK profiles at or above
// threshold, best first. Zero topK or threshold fall back to the store
// defaults. Any failure degrades to an empty result.
func (s *Store) Search(ctx context.Context, queryText string, topK int, threshold float64) []MatchResult {
	if topK <= 0 {
		topK = s.topK
	}
	if threshold <= 0 {
		threshold = s.threshold
	}

	s.mu.Lock()
	empty := len(s.embeddings) == 0
	s.mu.Unlock()
	if empty {
		return nil
	}

	query, err := s.embedder.Embed(ctx, queryText, embedding.TaskQuery)
	if err != nil {
		s.logger.Error("query embedding failed", "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.useIndex && s.index != nil {
		results, err := s.searchIndexLocked(query, topK, threshold)
		if err == nil {
			return results
		}
		s.logger.Error("index search failed, falling back to linear scan", "error", err)
	}

	return s.searchLinearLocked(query, topK, threshold)
}

func (s *Store) searchIndexLocked(query []float32, topK int, threshold float64) ([]MatchResult, error) {
	k := topK
	if len(s.profiles) < k {
		k = len(s.profiles)
	}

	hits, err := s.index.search(query, k)
	if err != nil {
		return nil, err
	}

	var results []MatchResult
	for _, hit := range hits {
		if hit.similarity < threshold || hit.position >= len(s.ids) {
			continue
		}
		results = append(results, s.matchResultLocked(hit.position, hit.similarity))
	}
	return results, nil
}

func (s *Store) searchLinearLocked(query []float32, topK int, threshold float64) []MatchResult {
	var hits []indexHit
	for i, vec := range s.embeddings {
		similarity := embedding.Cosine(query, vec)
		if similarity >= threshold {
			hits = append(hits, indexHit{position: i, similarity: similarity})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].similarity > hits[b].similarity
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}

	results := make([]MatchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, s.matchResultLocked(hit.position, hit.similarity))
	}
	return results
}

func (s *Store) matchResultLocked(position int, similarity float64) MatchResult {
	profileID := s.ids[position]
	profile := s.profiles[profileID]

	return MatchResult{
		ProfileID:           profileID,
		SimilarityScore:     similarity,
		MatchReason:         fmt.Sprintf("Similar struggle: %s...", truncate(profile.StruggleText, 100)),
		SuggestedConnection: true,
	}
}

// AddFromSession captures a live user struggle as an anonymized peer
// profile. Returns the new profile id, or "" when capture is disabled
// or the add was rejected. The user id is accepted for auditing at the
// call site but never stored.
func (s *Store) AddFromSession(ctx context.Context, struggleText, userID, academicStage, researchArea string, emotionalTags []string) string {
	if !s.captureUserData {
		s.logger.Debug("real user data collection disabled")
		return ""
	}

	vec, err := s.embedder.Embed(ctx, struggleText, embedding.TaskDocument)
	if err != nil {
		s.logger.Error("session profile embedding failed", "error", err)
		return ""
	}

	if emotionalTags == nil {
		emotionalTags = []string{}
	}

	profile := PeerProfile{
		ProfileID:     fmt.Sprintf("user_%s", uuid.New().String()[:8]),
		Embedding:     vec,
		StruggleText:  struggleText,
		AcademicStage: academicStage,
		ResearchArea:  researchArea,
		AnonymizedMetadata: map[string]any{
			"emotional_tags": emotionalTags,
			"source":         "user_session",
			"created_at":     time.Now().Format(time.RFC3339),
		},
	}

	if !s.Add(profile, false) {
		return ""
	}

	s.logger.Info("added user profile from session", "profile_id", profile.ProfileID)
	return profile.ProfileID
}

// Save writes the current profiles to the persistence path.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	profiles := make([]PeerProfile, 0, len(s.ids))
	for _, id := range s.ids {
		profiles = append(profiles, s.profiles[id])
	}

	if err := s.persistence.Save(profiles, s.path); err != nil {
		s.logger.Error("save failed", "error", err)
		return err
	}
	return nil
}

// LoadPersisted restores profiles from the persistence path,
// regenerating embeddings in small batches with incremental index
// rebuilds so searches running during the load see the partial set.
// Records whose embedding fails are logged and skipped. Idempotent.
func (s *Store) LoadPersisted(ctx context.Context) error {
	s.mu.Lock()
	if s.persistedLoaded {
		s.mu.Unlock()
		return nil
	}
	s.persistedLoaded = true
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}

	records, err := s.persistence.Load(s.path)
	if err != nil {
		s.logger.Warn("could not load persisted profiles", "error", err)
		return err
	}

	loaded := 0
	for i, record := range records {
		vec, err := s.embedder.Embed(ctx, record.StruggleText, embedding.TaskDocument)
		if err != nil {
			s.logger.Warn("failed to restore profile",
				"profile_id", record.ProfileID,
				"error", err,
			)
			continue
		}
		record.Embedding = vec

		s.mu.Lock()
		s.profiles[record.ProfileID] = record
		s.embeddings = append(s.embeddings, record.Embedding)
		s.ids = append(s.ids, record.ProfileID)
		if (i+1)%loadBatchSize == 0 || i+1 == len(records) {
			s.rebuildIndexLocked()
		}
		s.mu.Unlock()

		loaded++
	}

	s.logger.Info("restored profiles from persistence", "loaded", loaded, "total", len(records))
	return nil
}

// Get returns the profile with the given id.
func (s *Store) Get(profileID string) (PeerProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[profileID]
	return profile, ok
}

// Stats reports a snapshot of store state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		TotalProfiles:      len(s.profiles),
		TotalEmbeddings:    len(s.embeddings),
		UsingIndex:         s.useIndex && s.index != nil,
		PersistencePath:    s.path,
		AdditionsSinceSave: s.additionsSinceSave,
	}
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
