package item

// Stack is one inventory slot: an item id with a quantity.
type Stack struct {
	ItemID   string   `json:"item_id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Quantity int      `json:"quantity"`
	Value    int      `json:"value"`
}

// Add places qty of itemID into inv, stacking onto an existing slot when
// one matches and appending a new slot otherwise. Unknown item ids are
// ignored and inv is returned unchanged.
func Add(inv []Stack, cat Catalog, itemID string, qty int) []Stack {
	def, ok := cat[itemID]
	if !ok || qty <= 0 {
		return inv
	}
	for i := range inv {
		if inv[i].ItemID == itemID {
			inv[i].Quantity += qty
			return inv
		}
	}
	return append(inv, Stack{
		ItemID:   itemID,
		Name:     def.Name,
		Category: def.Category,
		Quantity: qty,
		Value:    def.Value,
	})
}

// Remove decrements qty from the slot holding itemID, dropping the slot
// when it reaches zero. Removing more than is held fails and leaves inv
// unchanged.
func Remove(inv []Stack, itemID string, qty int) ([]Stack, bool) {
	if qty <= 0 {
		return inv, false
	}
	for i := range inv {
		if inv[i].ItemID != itemID {
			continue
		}
		if inv[i].Quantity < qty {
			return inv, false
		}
		inv[i].Quantity -= qty
		if inv[i].Quantity == 0 {
			inv = append(inv[:i], inv[i+1:]...)
		}
		return inv, true
	}
	return inv, false
}

// Count returns how many of itemID the inventory holds.
func Count(inv []Stack, itemID string) int {
	for i := range inv {
		if inv[i].ItemID == itemID {
			return inv[i].Quantity
		}
	}
	return 0
}
