// Package state holds the per-session cart and favorites containers.
//
// Cart and Favorites are immutable values: every transition returns a new
// value and leaves the receiver untouched, so a value handed to an observer
// or serializer never changes underneath it. Store wraps a value with a lock
// and an observer list.
package state

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/meshur/storefront-backend/internal/app/model"
)

// Cart is a normalized map of cart lines keyed by variant id, plus the
// variant ids in insertion order.
type Cart struct {
	items      map[uint]model.CartItem
	variantIDs []uint
	rev        uint64
}

func NewCart() Cart {
	return Cart{items: map[uint]model.CartItem{}, variantIDs: []uint{}}
}

func (c Cart) clone() Cart {
	items := make(map[uint]model.CartItem, len(c.items)+1)
	for k, v := range c.items {
		items[k] = v
	}
	ids := make([]uint, len(c.variantIDs), len(c.variantIDs)+1)
	copy(ids, c.variantIDs)
	return Cart{items: items, variantIDs: ids, rev: c.rev + 1}
}

func (c Cart) revision() uint64 { return c.rev }

// Add puts quantity units of variant into the cart. A variant already in the
// cart has its quantity increased, saturating at math.MaxInt.
func (c Cart) Add(product model.Product, variant model.ProductVariant, quantity int) Cart {
	next := c.clone()
	if existing, ok := next.items[variant.ID]; ok {
		existing.Quantity = saturatingAdd(existing.Quantity, quantity)
		next.items[variant.ID] = existing
		return next
	}
	next.items[variant.ID] = model.CartItem{
		ProductID: product.ID,
		VariantID: variant.ID,
		Product:   product,
		Variant:   variant,
		Quantity:  quantity,
	}
	next.variantIDs = append(next.variantIDs, variant.ID)
	return next
}

// Remove drops the line for variantID; absent ids are a no-op.
func (c Cart) Remove(variantID uint) Cart {
	if _, ok := c.items[variantID]; !ok {
		return c
	}
	next := c.clone()
	delete(next.items, variantID)
	next.variantIDs = removeID(next.variantIDs, variantID)
	return next
}

// SetQuantity overwrites the quantity of an existing line. Quantities of zero
// or less remove the line; absent ids are a no-op.
func (c Cart) SetQuantity(variantID uint, quantity int) Cart {
	existing, ok := c.items[variantID]
	if !ok {
		return c
	}
	if quantity <= 0 {
		return c.Remove(variantID)
	}
	next := c.clone()
	existing.Quantity = quantity
	next.items[variantID] = existing
	return next
}

// Clear empties the cart; clearing an empty cart is a no-op.
func (c Cart) Clear() Cart {
	if c.Len() == 0 {
		return c
	}
	next := NewCart()
	next.rev = c.rev + 1
	return next
}

// Count is the sum of quantities over all lines.
func (c Cart) Count() int {
	total := 0
	for _, id := range c.variantIDs {
		total = saturatingAdd(total, c.items[id].Quantity)
	}
	return total
}

// saturatingAdd adds non-negative b to non-negative a without wrapping.
func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Total sums stored variant price times quantity.
func (c Cart) Total() float64 {
	var total float64
	for _, id := range c.variantIDs {
		if item, ok := c.items[id]; ok {
			total += item.Subtotal()
		}
	}
	return total
}

// Items returns the lines in insertion order.
func (c Cart) Items() []model.CartItem {
	items := make([]model.CartItem, 0, len(c.variantIDs))
	for _, id := range c.variantIDs {
		if item, ok := c.items[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

func (c Cart) Contains(variantID uint) bool {
	_, ok := c.items[variantID]
	return ok
}

// Quantity returns the quantity of the line for variantID, 0 when absent.
func (c Cart) Quantity(variantID uint) int {
	return c.items[variantID].Quantity
}

func (c Cart) Len() int {
	return len(c.variantIDs)
}

type cartJSON struct {
	Items      map[string]model.CartItem `json:"items"`
	VariantIDs []uint                    `json:"variant_ids"`
}

func (c Cart) MarshalJSON() ([]byte, error) {
	out := cartJSON{Items: make(map[string]model.CartItem, len(c.items)), VariantIDs: c.variantIDs}
	if out.VariantIDs == nil {
		out.VariantIDs = []uint{}
	}
	for id, item := range c.items {
		out.Items[strconv.FormatUint(uint64(id), 10)] = item
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a persisted cart. Order entries without a matching
// item, duplicates and non-positive quantities are dropped.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var in cartJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	next := NewCart()
	for _, id := range in.VariantIDs {
		item, ok := in.Items[strconv.FormatUint(uint64(id), 10)]
		if !ok || item.Quantity <= 0 {
			continue
		}
		if _, dup := next.items[id]; dup {
			continue
		}
		if item.VariantID != id {
			return fmt.Errorf("cart item keyed %d holds variant %d", id, item.VariantID)
		}
		next.items[id] = item
		next.variantIDs = append(next.variantIDs, id)
	}
	*c = next
	return nil
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
