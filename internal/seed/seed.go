// Package seed bootstraps the storage slots on first start in an idempotent
// way: existing slots are never touched.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nmoreno/quotecalc/internal/clients"
	"github.com/nmoreno/quotecalc/internal/pricing"
	"github.com/nmoreno/quotecalc/internal/rates"
	"github.com/nmoreno/quotecalc/internal/store"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run ensures both storage slots exist. The config slot is seeded from the
// bootstrap document in dataDir when present, otherwise from the embedded
// defaults; the quotes slot starts as an empty client tree.
func Run(slots *store.Slots, dataDir string) (Stats, error) {
	stats := Stats{}

	if err := ensureConfigSlot(slots, dataDir, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureQuotesSlot(slots, dataDir, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureConfigSlot(slots *store.Slots, dataDir string, stats *Stats) error {
	_, ok, err := slots.Read(rates.SlotKey)
	if err != nil {
		return fmt.Errorf("check config slot: %w", err)
	}
	if ok {
		return nil
	}

	doc := readBootstrap(dataDir, "config.json")
	if doc == nil {
		doc, err = json.Marshal(pricing.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal default config: %w", err)
		}
	}

	if err := slots.Write(rates.SlotKey, doc); err != nil {
		return fmt.Errorf("seed config slot: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureQuotesSlot(slots *store.Slots, dataDir string, stats *Stats) error {
	_, ok, err := slots.Read(clients.SlotKey)
	if err != nil {
		return fmt.Errorf("check quotes slot: %w", err)
	}
	if ok {
		return nil
	}

	doc := readBootstrap(dataDir, "quotes.json")
	if doc == nil {
		doc = []byte(`{"clients":{}}`)
	}

	if err := slots.Write(clients.SlotKey, doc); err != nil {
		return fmt.Errorf("seed quotes slot: %w", err)
	}
	stats.Inserts++
	return nil
}

// readBootstrap returns the named bootstrap document when it exists and
// contains valid JSON, nil otherwise.
func readBootstrap(dataDir, name string) []byte {
	if dataDir == "" {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(dataDir, name))
	if err != nil {
		return nil
	}
	if !json.Valid(raw) {
		return nil
	}
	return raw
}
