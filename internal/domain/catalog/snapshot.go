package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// Snapshot is the catalog state captured when an editing workflow opens.
// Drafts resolve products and packages against the snapshot rather than live
// storage, so a draft already holding an item stays valid even if that item's
// stock drops or it is deactivated while the workflow is open.
type Snapshot struct {
	products map[string]Product
	packs    map[string]Pack
}

// LoadSnapshot fetches all active products and packages into a Snapshot.
func LoadSnapshot(ctx context.Context, products ProductRepository, packs PackRepository) (*Snapshot, error) {
	ps, err := products.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	ks, err := packs.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list packages")
	}

	s := &Snapshot{
		products: make(map[string]Product, len(ps)),
		packs:    make(map[string]Pack, len(ks)),
	}
	for _, p := range ps {
		s.products[p.ID] = p
	}
	for _, k := range ks {
		s.packs[k.ID] = k
	}
	return s, nil
}

// NewSnapshot builds a Snapshot from in-memory catalog entries. Intended for
// tests and for seeding tools that already hold the full catalog.
func NewSnapshot(products []Product, packs []Pack) *Snapshot {
	s := &Snapshot{
		products: make(map[string]Product, len(products)),
		packs:    make(map[string]Pack, len(packs)),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, k := range packs {
		s.packs[k.ID] = k
	}
	return s
}

// MergeProducts adds entries to the snapshot, overwriting existing ones.
// Used when loading a persisted order for editing: its line items may
// reference products that are no longer active and therefore missing from
// the initial snapshot.
func (s *Snapshot) MergeProducts(products []Product) {
	for _, p := range products {
		s.products[p.ID] = p
	}
}

// Product returns the snapshotted product with the given id.
func (s *Snapshot) Product(id string) (Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Pack returns the snapshotted package with the given id.
func (s *Snapshot) Pack(id string) (Pack, bool) {
	k, ok := s.packs[id]
	return k, ok
}

// Products returns all snapshotted products in unspecified order.
func (s *Snapshot) Products() []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out
}

// Packs returns all snapshotted packages in unspecified order.
func (s *Snapshot) Packs() []Pack {
	out := make([]Pack, 0, len(s.packs))
	for _, k := range s.packs {
		out = append(out, k)
	}
	return out
}
