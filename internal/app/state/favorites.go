package state

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/meshur/storefront-backend/internal/app/model"
)

// Favorites maps product ids to product snapshots, ordered by insertion.
type Favorites struct {
	items map[uint]model.Product
	ids   []uint
	rev   uint64
}

func NewFavorites() Favorites {
	return Favorites{items: map[uint]model.Product{}, ids: []uint{}}
}

func (f Favorites) clone() Favorites {
	items := make(map[uint]model.Product, len(f.items)+1)
	for k, v := range f.items {
		items[k] = v
	}
	ids := make([]uint, len(f.ids), len(f.ids)+1)
	copy(ids, f.ids)
	return Favorites{items: items, ids: ids, rev: f.rev + 1}
}

func (f Favorites) revision() uint64 { return f.rev }

// Add is idempotent: a product already present keeps its original snapshot.
func (f Favorites) Add(product model.Product) Favorites {
	if _, ok := f.items[product.ID]; ok {
		return f
	}
	next := f.clone()
	next.items[product.ID] = product
	next.ids = append(next.ids, product.ID)
	return next
}

func (f Favorites) Remove(productID uint) Favorites {
	if _, ok := f.items[productID]; !ok {
		return f
	}
	next := f.clone()
	delete(next.items, productID)
	next.ids = removeID(next.ids, productID)
	return next
}

// Toggle adds the product when absent and removes it when present.
func (f Favorites) Toggle(product model.Product) Favorites {
	if f.IsFavorite(product.ID) {
		return f.Remove(product.ID)
	}
	return f.Add(product)
}

func (f Favorites) IsFavorite(productID uint) bool {
	_, ok := f.items[productID]
	return ok
}

func (f Favorites) Clear() Favorites {
	if f.Count() == 0 {
		return f
	}
	next := NewFavorites()
	next.rev = f.rev + 1
	return next
}

// List returns the favorite products in insertion order.
func (f Favorites) List() []model.Product {
	products := make([]model.Product, 0, len(f.ids))
	for _, id := range f.ids {
		if p, ok := f.items[id]; ok {
			products = append(products, p)
		}
	}
	return products
}

func (f Favorites) Count() int {
	return len(f.ids)
}

type favoritesJSON struct {
	Items map[string]model.Product `json:"items"`
	IDs   []uint                   `json:"ids"`
}

func (f Favorites) MarshalJSON() ([]byte, error) {
	out := favoritesJSON{Items: make(map[string]model.Product, len(f.items)), IDs: f.ids}
	if out.IDs == nil {
		out.IDs = []uint{}
	}
	for id, p := range f.items {
		out.Items[strconv.FormatUint(uint64(id), 10)] = p
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores persisted favorites. Order entries without a
// matching product and duplicates are dropped.
func (f *Favorites) UnmarshalJSON(data []byte) error {
	var in favoritesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	next := NewFavorites()
	for _, id := range in.IDs {
		p, ok := in.Items[strconv.FormatUint(uint64(id), 10)]
		if !ok {
			continue
		}
		if _, dup := next.items[id]; dup {
			continue
		}
		if p.ID != id {
			return fmt.Errorf("favorite keyed %d holds product %d", id, p.ID)
		}
		next.items[id] = p
		next.ids = append(next.ids, id)
	}
	*f = next
	return nil
}
