package config

import "sync"

// Store loads and saves settings. Front ends take a Store instead of
// reaching for a global file so they can run against memory in tests.
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
}

// FileStore keeps settings in a YAML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore at path, or at the default config file
// when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPaths().ConfigFile()
	}
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (*Config, error) {
	return LoadFromFile(s.Path)
}

func (s *FileStore) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.SaveToFile(s.Path)
}

// MemoryStore keeps settings in memory.
type MemoryStore struct {
	mu  sync.Mutex
	cfg Config
}

// NewMemoryStore returns a MemoryStore holding a copy of cfg, or the
// defaults when cfg is nil.
func NewMemoryStore(cfg *Config) *MemoryStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &MemoryStore{cfg: *cfg}
}

func (s *MemoryStore) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	return &cfg, nil
}

func (s *MemoryStore) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = *cfg
	return nil
}
