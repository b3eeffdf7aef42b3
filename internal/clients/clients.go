// Package clients owns the persisted tree of clients and their quote
// history. The whole tree lives in one storage slot and is rewritten in full
// on every mutation.
package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nmoreno/quotecalc/internal/pricing"
	"github.com/nmoreno/quotecalc/internal/store"
)

// SlotKey is the storage slot holding the client/quote document.
const SlotKey = "pricing-calc-quotes"

const bootstrapFile = "quotes.json"

var (
	// ErrInvalidClient is returned when a client is created with an empty name.
	ErrInvalidClient = errors.New("invalid client")

	// ErrUnknownClient is returned when an operation that needs an owner
	// references a client id that does not exist.
	ErrUnknownClient = errors.New("unknown client")

	// ErrUnknownQuote is returned when a quote lookup references an id that
	// does not exist under the given client.
	ErrUnknownQuote = errors.New("unknown quote")
)

// Quote is a saved quote. All monetary fields are snapshots taken at save
// time; later configuration edits never reprice a saved quote.
type Quote struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"createdAt"`
	Items     []pricing.Item    `json:"items"`
	Modifiers pricing.Modifiers `json:"modifiers"`
	Subtotal  float64           `json:"subtotal"`
	TaxAmount float64           `json:"taxAmount"`
	Total     float64           `json:"total"`
}

// Client owns its quotes exclusively; deleting a client deletes them all.
type Client struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Quotes []Quote `json:"quotes"`
}

// Draft is the editable seed produced by duplicating a quote. It is not a
// Quote record: the caller must explicitly save it.
type Draft struct {
	Items     []pricing.Item    `json:"items"`
	Modifiers pricing.Modifiers `json:"modifiers"`
}

type document struct {
	Clients map[string]Client `json:"clients"`
}

// Repository loads and mutates the client tree. All methods are safe for
// concurrent use. Mutations persist the full document; a persist failure is
// logged and never surfaced, matching the storage model where the in-memory
// state stays authoritative for the session.
type Repository struct {
	slots   *store.Slots
	dataDir string
	log     *logrus.Logger

	mu   sync.Mutex
	data document
}

// NewRepository returns a repository backed by slots. dataDir may contain a
// bootstrap quotes.json used only when the slot is empty.
func NewRepository(slots *store.Slots, dataDir string, log *logrus.Logger) *Repository {
	return &Repository{
		slots:   slots,
		dataDir: dataDir,
		log:     log,
		data:    document{Clients: map[string]Client{}},
	}
}

// Load reads the persisted client tree. A missing slot falls back to the
// bootstrap document, then to an empty tree; failures are logged, never
// returned.
func (r *Repository) Load() {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.slots.Read(SlotKey)
	if err != nil {
		r.log.WithError(err).Warn("quotes slot read failed, starting empty")
	}

	bootstrapped := false
	if !ok && err == nil {
		raw = r.readBootstrap()
		bootstrapped = raw != nil
	}

	doc := document{Clients: map[string]Client{}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			r.log.WithError(err).Warn("stored quotes document is not valid JSON, starting empty")
			doc = document{Clients: map[string]Client{}}
			bootstrapped = false
		}
	}
	if doc.Clients == nil {
		doc.Clients = map[string]Client{}
	}
	r.data = doc

	if bootstrapped {
		r.persist()
	}
}

// AddClient creates a client with a fresh id and an empty quote list.
func (r *Repository) AddClient(name, email string) (Client, error) {
	if strings.TrimSpace(name) == "" {
		return Client{}, fmt.Errorf("%w: name is required", ErrInvalidClient)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	client := Client{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Quotes: []Quote{},
	}
	r.data.Clients[client.ID] = client
	r.persist()

	return client, nil
}

// UpdateClient replaces the client's name and email in place, preserving its
// id and quotes. Updating an unknown id is a benign no-op.
func (r *Repository) UpdateClient(id, name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[id]
	if !ok {
		return
	}
	client.Name = name
	client.Email = email
	r.data.Clients[id] = client
	r.persist()
}

// DeleteClient removes the client and all of its quotes. Deleting an unknown
// id is a benign no-op.
func (r *Repository) DeleteClient(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data.Clients[id]; !ok {
		return
	}
	delete(r.data.Clients, id)
	r.persist()
}

// AddQuote assigns a fresh id and the current date to the quote and appends
// it to the client's history. Unlike deletes, a missing owner is a hard
// failure: the quote cannot be stored without one.
func (r *Repository) AddQuote(clientID string, items []pricing.Item, mods pricing.Modifiers, subtotal, taxAmount, total float64) (Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[clientID]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownClient, clientID)
	}

	quote := Quote{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Format("2006-01-02"),
		Items:     items,
		Modifiers: mods,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     total,
	}
	client.Quotes = append(client.Quotes, quote)
	r.data.Clients[clientID] = client
	r.persist()

	return quote, nil
}

// DeleteQuote removes the matching quote from the client's history. An
// unknown client or quote id is a benign no-op.
func (r *Repository) DeleteQuote(clientID, quoteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[clientID]
	if !ok {
		return
	}

	kept := client.Quotes[:0]
	removed := false
	for _, q := range client.Quotes {
		if q.ID == quoteID {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	if !removed {
		return
	}

	client.Quotes = kept
	r.data.Clients[clientID] = client
	r.persist()
}

// DuplicateQuote returns an editable draft copied from a saved quote. Every
// item gets a fresh id; type, complexity, revisions and price snapshots carry
// over, as does a copy of the modifiers. Nothing is persisted.
func (r *Repository) DuplicateQuote(clientID, quoteID string) (Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[clientID]
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", ErrUnknownClient, clientID)
	}

	for _, q := range client.Quotes {
		if q.ID != quoteID {
			continue
		}
		items := make([]pricing.Item, len(q.Items))
		for i, item := range q.Items {
			item.ID = uuid.NewString()
			items[i] = item
		}
		return Draft{Items: items, Modifiers: q.Modifiers}, nil
	}

	return Draft{}, fmt.Errorf("%w: %q", ErrUnknownQuote, quoteID)
}

// ListClients returns a snapshot of all clients sorted by name (ties broken
// by id). The underlying map has no meaningful order, so the sort is the
// documented contract.
func (r *Repository) ListClients() []Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]Client, 0, len(r.data.Clients))
	for _, client := range r.data.Clients {
		list = append(list, cloneClient(client))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// GetClient returns a snapshot of the client, or false when the id is
// unknown.
func (r *Repository) GetClient(id string) (Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[id]
	if !ok {
		return Client{}, false
	}
	return cloneClient(client), true
}

// GetQuote returns a snapshot of one saved quote.
func (r *Repository) GetQuote(clientID, quoteID string) (Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.data.Clients[clientID]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownClient, clientID)
	}
	for _, q := range client.Quotes {
		if q.ID == quoteID {
			return cloneQuote(q), nil
		}
	}
	return Quote{}, fmt.Errorf("%w: %q", ErrUnknownQuote, quoteID)
}

func (r *Repository) persist() {
	doc, err := json.Marshal(r.data)
	if err != nil {
		r.log.WithError(err).Error("failed to marshal quotes document")
		return
	}
	if err := r.slots.Write(SlotKey, doc); err != nil {
		r.log.WithError(err).Error("failed to persist quotes document")
	}
}

func (r *Repository) readBootstrap() []byte {
	if r.dataDir == "" {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(r.dataDir, bootstrapFile))
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.WithError(err).Warn("failed to read bootstrap quotes document")
		}
		return nil
	}
	return raw
}

func cloneClient(c Client) Client {
	quotes := make([]Quote, len(c.Quotes))
	for i, q := range c.Quotes {
		quotes[i] = cloneQuote(q)
	}
	c.Quotes = quotes
	return c
}

func cloneQuote(q Quote) Quote {
	items := make([]pricing.Item, len(q.Items))
	copy(items, q.Items)
	q.Items = items
	return q
}
