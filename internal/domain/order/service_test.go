package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/pricing"
	"github.com/sorenh/crmdash/internal/notify"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Mock implementations ---

type mockOrderRepo struct {
	upserted  *Order
	upsertErr error

	insertedItems []*Item
	insertErr     error
	updates       map[string]int
	updateErr     error
	deletedIDs    []string
	deleteErr     error
}

func (m *mockOrderRepo) Upsert(_ context.Context, o *Order) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, _ string) (*Order, error) {
	return nil, ErrNotFound
}

func (m *mockOrderRepo) List(_ context.Context) ([]Order, error) { return nil, nil }

func (m *mockOrderRepo) InsertItem(_ context.Context, item *Item) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedItems = append(m.insertedItems, item)
	return nil
}

func (m *mockOrderRepo) UpdateItem(_ context.Context, id string, quantity int, _ decimal.Decimal) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updates == nil {
		m.updates = make(map[string]int)
	}
	m.updates[id] = quantity
	return nil
}

func (m *mockOrderRepo) DeleteItem(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockOrderRepo) ListItems(_ context.Context, _ string) ([]Item, error) { return nil, nil }

type mockInventory struct {
	decrements map[string]int
	err        error
}

func (m *mockInventory) DecrementStock(_ context.Context, productID string, quantity int) error {
	if m.err != nil {
		return m.err
	}
	if m.decrements == nil {
		m.decrements = make(map[string]int)
	}
	m.decrements[productID] += quantity
	return nil
}

type mockWarrantyRepo struct {
	created []*Warranty
	err     error
}

func (m *mockWarrantyRepo) Create(_ context.Context, w *Warranty) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, w)
	return nil
}

// --- Helpers ---

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]catalog.Product{
			{ID: "p1", Name: "Boiler", Price: dec("100"), Stock: 10, Active: true},
			{ID: "p2", Name: "Filter", Price: dec("20"), Stock: 10, WarrantyMonths: 24, Active: true},
		},
		[]catalog.Pack{
			{ID: "k1", Name: "Bundle", BasePrice: dec("500"), Active: true},
		},
	)
}

func newDraft(t *testing.T) *draft.OrderDraft {
	t.Helper()
	d, err := draft.NewOrderDraft("c1", testSnapshot(), pricing.TaxIncluded)
	require.NoError(t, err)
	return d
}

// --- Tests ---

func TestCommit_CreateFlow(t *testing.T) {
	repo := &mockOrderRepo{}
	inv := &mockInventory{}
	war := &mockWarrantyRepo{}
	svc := NewService(repo, inv, war, notify.Nop{})

	d := newDraft(t)
	require.NoError(t, d.AddProduct("p1", 2))
	require.NoError(t, d.AddProduct("p2", 1))
	require.NoError(t, d.AddPack("k1", 1))

	res, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	require.NotNil(t, repo.upserted)
	assert.NotEmpty(t, res.Order.ID)
	assert.Equal(t, StatusNew, res.Order.Status)
	assert.True(t, dec("720").Equal(res.Order.Subtotal), "subtotal %s", res.Order.Subtotal)

	// All three lines are new, so all are inserts.
	require.Len(t, repo.insertedItems, 3)
	for _, item := range repo.insertedItems {
		assert.Equal(t, res.Order.ID, item.OrderID)
	}

	// Inventory decremented for product lines only.
	assert.Equal(t, map[string]int{"p1": 2, "p2": 1}, inv.decrements)

	// Warranty created only for the warranty-bearing product.
	require.Len(t, war.created, 1)
	assert.Equal(t, "p2", war.created[0].ProductID)
	assert.Equal(t, 24, war.created[0].Months)
}

func TestCommit_ParentFailureIsFatal(t *testing.T) {
	repo := &mockOrderRepo{upsertErr: errors.New("connection refused")}
	svc := NewService(repo, &mockInventory{}, &mockWarrantyRepo{}, notify.Nop{})

	d := newDraft(t)
	require.NoError(t, d.AddProduct("p1", 1))

	_, err := svc.Commit(context.Background(), d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save order")
	assert.Empty(t, repo.insertedItems)
}

func TestCommit_LineFailureIsFatal(t *testing.T) {
	repo := &mockOrderRepo{insertErr: errors.New("constraint violation")}
	inv := &mockInventory{}
	svc := NewService(repo, inv, &mockWarrantyRepo{}, notify.Nop{})

	d := newDraft(t)
	require.NoError(t, d.AddProduct("p1", 1))

	_, err := svc.Commit(context.Background(), d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert line")

	// The parent write is not rolled back, and side effects never ran.
	assert.NotNil(t, repo.upserted)
	assert.Empty(t, inv.decrements)
}

func TestCommit_SideEffectFailuresAreWarnings(t *testing.T) {
	repo := &mockOrderRepo{}
	inv := &mockInventory{err: errors.New("rpc timeout")}
	war := &mockWarrantyRepo{err: errors.New("insert failed")}
	svc := NewService(repo, inv, war, notify.Nop{})

	d := newDraft(t)
	require.NoError(t, d.AddProduct("p1", 1))
	require.NoError(t, d.AddProduct("p2", 1))

	res, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	// One stock warning per product line plus one warranty warning for p2.
	assert.Len(t, res.Warnings, 3)
	assert.NotNil(t, repo.upserted)
}

func TestCommit_UpdateFlowAppliesChangeset(t *testing.T) {
	repo := &mockOrderRepo{}
	inv := &mockInventory{}
	svc := NewService(repo, inv, &mockWarrantyRepo{}, notify.Nop{})

	d := newDraft(t)
	d.LoadExisting("o1", []draft.LineItem{
		{Kind: draft.KindProduct, RefID: "p1", Name: "Boiler", Quantity: 1, UnitPrice: dec("100"), PersistedID: "r1"},
		{Kind: draft.KindProduct, RefID: "p2", Name: "Filter", Quantity: 2, UnitPrice: dec("20"), PersistedID: "r2"},
	})

	// Bump p1 quantity, drop p2, add the bundle.
	d.Items[0].Quantity = 3
	require.NoError(t, d.Remove(1))
	require.NoError(t, d.AddPack("k1", 1))

	res, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, "o1", res.Order.ID)
	assert.Equal(t, map[string]int{"r1": 3}, repo.updates)
	assert.Equal(t, []string{"r2"}, repo.deletedIDs)
	require.Len(t, repo.insertedItems, 1)
	assert.Equal(t, draft.KindPack, repo.insertedItems[0].Kind)

	// Quantity updates do not touch inventory; only inserted product lines do.
	assert.Empty(t, inv.decrements)
}

func TestCommit_NoChangesStillUpsertsParent(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo, &mockInventory{}, &mockWarrantyRepo{}, notify.Nop{})

	d := newDraft(t)
	d.LoadExisting("o1", []draft.LineItem{
		{Kind: draft.KindProduct, RefID: "p1", Name: "Boiler", Quantity: 1, UnitPrice: dec("100"), PersistedID: "r1"},
	})
	d.Notes = "call before delivery"

	res, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.NotNil(t, repo.upserted)
	assert.Equal(t, "call before delivery", res.Order.Notes)
	assert.Empty(t, repo.insertedItems)
	assert.Empty(t, repo.updates)
	assert.Empty(t, repo.deletedIDs)
}
