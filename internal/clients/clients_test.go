package clients

import (
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nmoreno/quotecalc/internal/pricing"
	"github.com/nmoreno/quotecalc/internal/store"
)

func newTestSlots(t *testing.T) *store.Slots {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE storage_slots (
			key TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating storage_slots table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return store.NewSlots(db)
}

func newTestRepo(t *testing.T) (*Repository, *store.Slots) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)

	slots := newTestSlots(t)
	repo := NewRepository(slots, "", log)
	repo.Load()
	return repo, slots
}

func sampleItems() []pricing.Item {
	return []pricing.Item{
		{ID: "item-1", Type: pricing.LandingPage, Complexity: pricing.Medium, ExtraRevisions: 1, BasePrice: 2500, CalculatedPrice: 3850},
		{ID: "item-2", Type: pricing.SEOSetup, Complexity: pricing.Simple, BasePrice: 600, CalculatedPrice: 600},
	}
}

func TestAddClientRequiresName(t *testing.T) {
	repo, _ := newTestRepo(t)

	if _, err := repo.AddClient("", "x@example.com"); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("expected ErrInvalidClient, got %v", err)
	}
	if _, err := repo.AddClient("   ", ""); !errors.Is(err, ErrInvalidClient) {
		t.Fatalf("expected ErrInvalidClient for whitespace name, got %v", err)
	}
}

func TestAddClientWithoutEmail(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, err := repo.AddClient("Acme", "")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}
	if client.ID == "" {
		t.Fatalf("expected fresh client id")
	}
	if len(client.Quotes) != 0 {
		t.Fatalf("expected empty quote list, got %d", len(client.Quotes))
	}

	got, ok := repo.GetClient(client.ID)
	if !ok || got.Name != "Acme" {
		t.Fatalf("expected to find client, got ok=%v client=%+v", ok, got)
	}
}

func TestUpdateClientPreservesQuotesAndID(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, err := repo.AddClient("Acme", "old@acme.test")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}
	if _, err := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{}, 4450, 0, 4450); err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	repo.UpdateClient(client.ID, "Acme Corp", "new@acme.test")

	got, ok := repo.GetClient(client.ID)
	if !ok {
		t.Fatalf("expected client to exist")
	}
	if got.Name != "Acme Corp" || got.Email != "new@acme.test" {
		t.Fatalf("unexpected client after update: %+v", got)
	}
	if len(got.Quotes) != 1 {
		t.Fatalf("expected quotes preserved, got %d", len(got.Quotes))
	}

	// Unknown id is a no-op, not a failure.
	repo.UpdateClient("missing", "X", "")
}

func TestAddQuoteUnknownClientLeavesStateUnchanged(t *testing.T) {
	repo, slots := newTestRepo(t)

	before, _, err := slots.Read(SlotKey)
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}

	if _, err := repo.AddQuote("missing", sampleItems(), pricing.Modifiers{}, 100, 0, 100); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}

	after, _, err := slots.Read(SlotKey)
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("expected repository state unchanged, slot went from %q to %q", before, after)
	}
	if len(repo.ListClients()) != 0 {
		t.Fatalf("expected no clients")
	}
}

func TestAddQuoteAssignsIdentityAndAppends(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, err := repo.AddClient("Acme", "")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}

	first, err := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{IncludeTax: true}, 4450, 578.5, 5028.5)
	if err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}
	second, err := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{}, 4450, 0, 4450)
	if err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct fresh quote ids, got %q and %q", first.ID, second.ID)
	}
	if first.CreatedAt == "" {
		t.Fatalf("expected createdAt to be set")
	}

	got, _ := repo.GetClient(client.ID)
	if len(got.Quotes) != 2 || got.Quotes[0].ID != first.ID || got.Quotes[1].ID != second.ID {
		t.Fatalf("expected quotes appended in order, got %+v", got.Quotes)
	}
}

func TestDeleteClientRemovesAllQuotes(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, err := repo.AddClient("Acme", "")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}
	if _, err := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{}, 4450, 0, 4450); err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	repo.DeleteClient(client.ID)

	if _, ok := repo.GetClient(client.ID); ok {
		t.Fatalf("expected client to be absent after delete")
	}
	if _, err := repo.GetQuote(client.ID, "anything"); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}

	// Deleting again is a no-op.
	repo.DeleteClient(client.ID)
}

func TestDeleteQuoteRemovesOnlyMatch(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, _ := repo.AddClient("Acme", "")
	first, _ := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{}, 100, 0, 100)
	second, _ := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{}, 200, 0, 200)

	repo.DeleteQuote(client.ID, first.ID)

	got, _ := repo.GetClient(client.ID)
	if len(got.Quotes) != 1 || got.Quotes[0].ID != second.ID {
		t.Fatalf("expected only second quote to remain, got %+v", got.Quotes)
	}

	// Unknown quote and unknown client are no-ops.
	repo.DeleteQuote(client.ID, "missing")
	repo.DeleteQuote("missing", second.ID)
}

func TestDuplicateQuoteFreshItemIDs(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, _ := repo.AddClient("Acme", "")
	mods := pricing.Modifiers{RushFee: true, CustomDiscountPercent: 5, BundleDiscountApplied: true, IncludeTax: true}
	quote, err := repo.AddQuote(client.ID, sampleItems(), mods, 4450, 578.5, 5028.5)
	if err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	draft, err := repo.DuplicateQuote(client.ID, quote.ID)
	if err != nil {
		t.Fatalf("DuplicateQuote returned error: %v", err)
	}

	if draft.Modifiers != mods {
		t.Fatalf("expected modifiers copied, got %+v", draft.Modifiers)
	}
	if len(draft.Items) != len(quote.Items) {
		t.Fatalf("expected %d items, got %d", len(quote.Items), len(draft.Items))
	}

	sourceIDs := map[string]bool{}
	for _, item := range quote.Items {
		sourceIDs[item.ID] = true
	}
	for i, item := range draft.Items {
		if item.ID == "" || sourceIDs[item.ID] {
			t.Fatalf("expected fresh item id, got %q", item.ID)
		}
		src := quote.Items[i]
		if item.Type != src.Type || item.Complexity != src.Complexity ||
			item.ExtraRevisions != src.ExtraRevisions ||
			item.BasePrice != src.BasePrice || item.CalculatedPrice != src.CalculatedPrice {
			t.Fatalf("expected value-equal item apart from id, got %+v vs %+v", item, src)
		}
	}

	// Duplicating must not create a quote record.
	got, _ := repo.GetClient(client.ID)
	if len(got.Quotes) != 1 {
		t.Fatalf("expected duplicate to leave history untouched, got %d quotes", len(got.Quotes))
	}

	if _, err := repo.DuplicateQuote(client.ID, "missing"); !errors.Is(err, ErrUnknownQuote) {
		t.Fatalf("expected ErrUnknownQuote, got %v", err)
	}
	if _, err := repo.DuplicateQuote("missing", quote.ID); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}
}

func TestListClientsSortedByName(t *testing.T) {
	repo, _ := newTestRepo(t)

	for _, name := range []string{"Zenith", "Acme", "Mori Design"} {
		if _, err := repo.AddClient(name, ""); err != nil {
			t.Fatalf("AddClient returned error: %v", err)
		}
	}

	list := repo.ListClients()
	if len(list) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(list))
	}
	if list[0].Name != "Acme" || list[1].Name != "Mori Design" || list[2].Name != "Zenith" {
		t.Fatalf("expected clients sorted by name, got %+v", list)
	}
}

func TestMutationsSurviveReload(t *testing.T) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)

	slots := newTestSlots(t)

	repo := NewRepository(slots, "", log)
	repo.Load()
	client, err := repo.AddClient("Acme", "billing@acme.test")
	if err != nil {
		t.Fatalf("AddClient returned error: %v", err)
	}
	quote, err := repo.AddQuote(client.ID, sampleItems(), pricing.Modifiers{IncludeTax: true}, 4450, 578.5, 5028.5)
	if err != nil {
		t.Fatalf("AddQuote returned error: %v", err)
	}

	reloaded := NewRepository(slots, "", log)
	reloaded.Load()

	got, ok := reloaded.GetClient(client.ID)
	if !ok {
		t.Fatalf("expected client to survive reload")
	}
	if len(got.Quotes) != 1 || got.Quotes[0].ID != quote.ID || got.Quotes[0].Total != 5028.5 {
		t.Fatalf("expected quote snapshot to survive reload, got %+v", got.Quotes)
	}
}
