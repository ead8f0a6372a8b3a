package file

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/quillon-labs/worknorm/internal/core/domain"
)

// Built-in defaults applied when the config file is absent or silent.
const (
	defaultShardSize = 100000

	// dataciteWorkerCap bounds DataCite runs: the records are an order of
	// magnitude larger than the other sources', and more workers than this
	// just multiplies peak memory.
	dataciteWorkerCap = 8
)

// defaultBatch is the per-source flush size used when neither
// [transform] flush_size nor [sources.<name>] batch is set.
var defaultBatch = map[domain.Source]int{
	domain.SourceCrossref: 500,
	domain.SourceDataCite: 150,
	domain.SourceOpenAlex: 16,
}

// dataciteNulls are the abstract placeholders DataCite is known to emit.
var dataciteNulls = []string{":unav", "Cover title."}

// Config is the typed shape of the worknorm config file.
type Config struct {
	Transform TransformConfig         `toml:"transform"`
	Sources   map[string]SourceConfig `toml:"sources,omitempty"`
}

// TransformConfig holds the [transform] table.
type TransformConfig struct {
	// Workers is the worker count for transform runs. Zero means one per CPU.
	Workers int `toml:"workers,omitempty"`

	// FlushSize, when set, overrides every source's batch size.
	FlushSize int `toml:"flush_size,omitempty"`

	// ShardSize is the number of records per JSONL output shard.
	ShardSize int `toml:"shard_size,omitempty"`

	// Progress toggles the interactive progress display. Unset means on.
	Progress *bool `toml:"progress,omitempty"`
}

// SourceConfig holds one [sources.<name>] table.
type SourceConfig struct {
	// Batch is this source's flush size.
	Batch int `toml:"batch,omitempty"`

	// NullIfEquals lists abstract placeholder strings to null out. An
	// explicit empty list disables the built-in sentinels.
	NullIfEquals []string `toml:"null_if_equals,omitempty"`
}

// ConfigStore reads and writes the TOML config file. Accessors apply the
// built-in defaults, so callers never see a zero value where a default
// exists.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	cfg      Config
}

// NewConfigStore creates a config store backed by the file at path.
// If path is empty, defaults to ~/.worknorm/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".worknorm", "config.toml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{filePath: path}

	// Load existing data if file exists
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Load reads configuration from the TOML file. A missing file resets to
// defaults and is not an error.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, run on defaults
			s.cfg = Config{}
			return nil
		}
		return err
	}

	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	s.cfg = loaded
	return nil
}

// Save persists the current configuration to disk as indented TOML.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s.cfg); err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, buf.Bytes(), 0600)
}

// Config returns a snapshot of the raw file values, defaults not applied.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.cfg
	snapshot.Sources = make(map[string]SourceConfig, len(s.cfg.Sources))
	for name, sc := range s.cfg.Sources {
		sc.NullIfEquals = append([]string(nil), sc.NullIfEquals...)
		snapshot.Sources[name] = sc
	}
	return snapshot
}

// SetConfig replaces the in-memory configuration. Call Save to persist it.
func (s *ConfigStore) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// WorkersFor returns the worker count to use for a source.
func (s *ConfigStore) WorkersFor(source domain.Source) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := s.cfg.Transform.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if source == domain.SourceDataCite && workers > dataciteWorkerCap {
		workers = dataciteWorkerCap
	}
	return workers
}

// FlushSizeFor returns the batch size to use for a source.
func (s *ConfigStore) FlushSizeFor(source domain.Source) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg.Transform.FlushSize > 0 {
		return s.cfg.Transform.FlushSize
	}
	if sc, ok := s.cfg.Sources[string(source)]; ok && sc.Batch > 0 {
		return sc.Batch
	}
	return defaultBatch[source]
}

// ShardSize returns the number of records per JSONL output shard.
func (s *ConfigStore) ShardSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg.Transform.ShardSize > 0 {
		return s.cfg.Transform.ShardSize
	}
	return defaultShardSize
}

// ProgressEnabled reports whether the interactive progress display is on.
func (s *ConfigStore) ProgressEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg.Transform.Progress == nil {
		return true
	}
	return *s.cfg.Transform.Progress
}

// NullSentinelsFor returns the abstract placeholders to null out for a
// source. The caller owns the returned slice.
func (s *ConfigStore) NullSentinelsFor(source domain.Source) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sc, ok := s.cfg.Sources[string(source)]; ok && sc.NullIfEquals != nil {
		return append([]string(nil), sc.NullIfEquals...)
	}
	if source == domain.SourceDataCite {
		return append([]string(nil), dataciteNulls...)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
