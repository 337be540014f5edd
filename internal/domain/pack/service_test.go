package pack

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/draft"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type mockPackRepo struct {
	upserted  *Pack
	upsertErr error

	insertedItems []*Item
	insertErr     error
	updates       map[string]int
	deletedIDs    []string
}

func (m *mockPackRepo) Upsert(_ context.Context, p *Pack) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = p
	return nil
}

func (m *mockPackRepo) GetByID(_ context.Context, _ string) (*Pack, error) {
	return nil, ErrNotFound
}

func (m *mockPackRepo) List(_ context.Context) ([]Pack, error) { return nil, nil }

func (m *mockPackRepo) InsertItem(_ context.Context, item *Item) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedItems = append(m.insertedItems, item)
	return nil
}

func (m *mockPackRepo) UpdateItem(_ context.Context, id string, quantity int, _ decimal.Decimal, _ bool) error {
	if m.updates == nil {
		m.updates = make(map[string]int)
	}
	m.updates[id] = quantity
	return nil
}

func (m *mockPackRepo) DeleteItem(_ context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockPackRepo) ListItems(_ context.Context, _ string) ([]Item, error) { return nil, nil }

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]catalog.Product{
			{ID: "p1", Name: "Radiator", Price: dec("20"), Stock: 5, Active: true},
			{ID: "p2", Name: "Valve", Price: dec("50"), Stock: 5, Active: true},
		},
		nil,
	)
}

func TestCommit_NewPackage(t *testing.T) {
	repo := &mockPackRepo{}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	d.Name = "Heating starter"
	require.NoError(t, d.AddProduct("p1", 3, nil))
	require.NoError(t, d.AddProduct("p2", 1, nil))

	p, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
	// No explicit base price, so it is derived from the line totals.
	assert.True(t, dec("110").Equal(p.BasePrice), "base price %s", p.BasePrice)

	require.Len(t, repo.insertedItems, 2)
	assert.Equal(t, p.ID, repo.insertedItems[0].PackID)
	assert.Equal(t, "p1", repo.insertedItems[0].ProductID)
}

func TestCommit_ExplicitBasePriceWins(t *testing.T) {
	repo := &mockPackRepo{}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	d.Name = "Fixed price"
	d.BasePriceText = "99.90"
	require.NoError(t, d.AddProduct("p1", 3, nil))

	p, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, dec("99.90").Equal(p.BasePrice), "base price %s", p.BasePrice)
}

func TestCommit_PriceOverrideKeptOnInsert(t *testing.T) {
	repo := &mockPackRepo{}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	d.Name = "Discounted valve"
	override := dec("40")
	require.NoError(t, d.AddProduct("p2", 1, &override))

	_, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, repo.insertedItems, 1)
	assert.True(t, repo.insertedItems[0].Overridden)
	assert.True(t, dec("40").Equal(repo.insertedItems[0].UnitPrice))
}

func TestCommit_EmptyNameRejected(t *testing.T) {
	repo := &mockPackRepo{}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	require.NoError(t, d.AddProduct("p1", 1, nil))

	_, err := svc.Commit(context.Background(), d)
	var verr *draft.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Nil(t, repo.upserted)
}

func TestCommit_UpdateFlowAppliesChangeset(t *testing.T) {
	repo := &mockPackRepo{}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	d.Name = "Heating starter"
	d.LoadExisting("k1", []draft.LineItem{
		{Kind: draft.KindProduct, RefID: "p1", Name: "Radiator", Quantity: 3, UnitPrice: dec("20"), PersistedID: "r1"},
		{Kind: draft.KindProduct, RefID: "p2", Name: "Valve", Quantity: 1, UnitPrice: dec("50"), PersistedID: "r2"},
	})

	d.Items[0].Quantity = 5
	require.NoError(t, d.Remove(1))

	p, err := svc.Commit(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, "k1", p.ID)
	assert.Equal(t, map[string]int{"r1": 5}, repo.updates)
	assert.Equal(t, []string{"r2"}, repo.deletedIDs)
	assert.Empty(t, repo.insertedItems)
}

func TestCommit_ParentFailureIsFatal(t *testing.T) {
	repo := &mockPackRepo{upsertErr: errors.New("connection refused")}
	svc := NewService(repo)

	d := draft.NewPackDraft(testSnapshot())
	d.Name = "Heating starter"
	require.NoError(t, d.AddProduct("p1", 1, nil))

	_, err := svc.Commit(context.Background(), d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save package")
	assert.Empty(t, repo.insertedItems)
}
