// Package rates owns the singleton pricing configuration record: loading it
// from the storage slot, reconciling it against the embedded defaults, and
// persisting every change.
package rates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nmoreno/quotecalc/internal/pricing"
	"github.com/nmoreno/quotecalc/internal/store"
)

// SlotKey is the storage slot holding the configuration document.
const SlotKey = "pricing-calc-config"

const bootstrapFile = "config.json"

// Store loads, merges, and persists the pricing configuration. All methods
// are safe for concurrent use.
type Store struct {
	slots   *store.Slots
	dataDir string
	log     *logrus.Logger

	mu      sync.Mutex
	current pricing.Config
	loaded  bool
}

// New returns a configuration store backed by slots. dataDir may contain a
// bootstrap config.json used only when the slot is empty.
func New(slots *store.Slots, dataDir string, log *logrus.Logger) *Store {
	return &Store{slots: slots, dataDir: dataDir, log: log}
}

// Load reads the persisted configuration, reconciles it field by field with
// the embedded defaults, persists the reconciled record, and returns it.
// Load never fails: a missing or unreadable slot degrades to the bootstrap
// document, then to the embedded defaults, with the failure logged.
func (s *Store) Load() pricing.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.slots.Read(SlotKey)
	if err != nil {
		s.log.WithError(err).Warn("config slot read failed, using defaults")
	}
	if !ok && err == nil {
		raw = s.readBootstrap()
	}

	cfg := mergeWithDefaults(raw, s.log)

	// Persist the reconciled record so storage self-heals to the current
	// field set on first read after an upgrade.
	if err := s.persist(cfg); err != nil {
		s.log.WithError(err).Warn("failed to persist reconciled config")
	}

	s.current = cfg
	s.loaded = true
	return cfg
}

// Current returns the in-memory configuration, loading it first if needed.
func (s *Store) Current() pricing.Config {
	s.mu.Lock()
	loaded := s.loaded
	current := s.current
	s.mu.Unlock()

	if loaded {
		return current
	}
	return s.Load()
}

// Save replaces the configuration and persists it.
func (s *Store) Save(cfg pricing.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(cfg); err != nil {
		return err
	}
	s.current = cfg
	s.loaded = true
	return nil
}

// Reset restores the embedded default record, persists it, and returns it.
func (s *Store) Reset() (pricing.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := pricing.DefaultConfig()
	if err := s.persist(cfg); err != nil {
		return pricing.Config{}, err
	}
	s.current = cfg
	s.loaded = true
	return cfg, nil
}

func (s *Store) persist(cfg pricing.Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return s.slots.Write(SlotKey, doc)
}

// readBootstrap returns the fallback config document from the data dir, or
// nil when none is readable.
func (s *Store) readBootstrap() []byte {
	if s.dataDir == "" {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(s.dataDir, bootstrapFile))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("failed to read bootstrap config document")
		}
		return nil
	}
	return raw
}

// mergeWithDefaults reconciles a stored partial record against a complete
// default record. Unmarshaling over a populated struct keeps default values
// for absent fields, including individual map keys, which gives the
// field-by-field merge rather than a deep replace.
func mergeWithDefaults(raw []byte, log *logrus.Logger) pricing.Config {
	cfg := pricing.DefaultConfig()
	if len(raw) == 0 {
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.WithError(err).Warn("stored config is not valid JSON, using defaults")
		return pricing.DefaultConfig()
	}
	return cfg
}
