package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"gopkg.in/yaml.v3"
)

// Manager owns the active configuration. Readers get an immutable
// snapshot via Get; Load and Reload swap the snapshot atomically and
// notify change watchers.
type Manager struct {
	configPtr unsafe.Pointer
	path      string
	watchers  []func(*Config)
	watcherMu sync.RWMutex
	stopWatch chan struct{}
	watchOnce sync.Once
}

// NewManager creates a manager seeded with defaults. path may be empty
// when no config file is used.
func NewManager(path string) *Manager {
	m := &Manager{
		path:      path,
		stopWatch: make(chan struct{}),
	}
	cfg := DefaultConfig()
	atomic.StorePointer(&m.configPtr, unsafe.Pointer(cfg))
	return m
}

func (m *Manager) Get() *Config {
	return (*Config)(atomic.LoadPointer(&m.configPtr))
}

// Load rebuilds the configuration from defaults, the YAML file, and
// environment overrides, in that order of precedence.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if err := m.loadYAMLFile(m.path, cfg); err != nil {
		return fmt.Errorf("config: load %s: %w", m.path, err)
	}

	m.applyEnvironment(cfg)

	atomic.StorePointer(&m.configPtr, unsafe.Pointer(cfg))
	m.notifyWatchers(cfg)

	return nil
}

func (m *Manager) loadYAMLFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func (m *Manager) applyEnvironment(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		cfg.LLM.GoogleAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); v != "" && cfg.LLM.GoogleAPIKey == "" {
		cfg.LLM.GoogleAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.LLM.OpenAIAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		cfg.LLM.AnthropicAPIKey = v
	}
	if v := os.Getenv("ENABLE_REAL_USER_DATA"); v != "" {
		cfg.VectorStore.EnableRealUserData = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VECTOR_STORE_PERSISTENCE_PATH"); v != "" {
		cfg.VectorStore.PersistencePath = v
	}
	if v := os.Getenv("AUTO_SAVE_INTERVAL"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.VectorStore.AutoSaveInterval = n
		}
	}
	if v := os.Getenv("MIN_STRUGGLE_LENGTH"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.VectorStore.MinStruggleLength = n
		}
	}
	if v := os.Getenv("DEDUPLICATION_THRESHOLD"); v != "" {
		if f, err := parseFloat(v); err == nil {
			cfg.VectorStore.DedupThreshold = f
		}
	}
	if v := os.Getenv("SESSION_DB_PATH"); v != "" {
		cfg.Session.DatabasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

// OnChange registers a callback invoked with the new snapshot after
// every successful Load or Reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

func (m *Manager) Reload() error {
	return m.Load()
}

func (m *Manager) Close() error {
	m.watchOnce.Do(func() {
		close(m.stopWatch)
	})
	return nil
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func parseFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%f", &f)
	return f, err
}
