package reducer

// Wishlist actions.
const (
	WishlistAddItem    = "addItem"
	WishlistRemoveItem = "removeItem"
	WishlistToggle     = "toggleItem"
	WishlistLoad       = "loadWishlist"
)

// WishlistAction is one dispatched wishlist mutation.
type WishlistAction struct {
	Type      string
	ProductID string
	IDs       []string
}

// WishlistState is an ordered set of product ids.
type WishlistState struct {
	IDs []string
}

// Contains reports whether the product id is wishlisted.
func (s WishlistState) Contains(productID string) bool {
	for _, id := range s.IDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ReduceWishlist applies one action and returns the next state. Adds are
// idempotent and removes of absent ids are no-ops (set semantics).
func ReduceWishlist(state WishlistState, action WishlistAction) WishlistState {
	switch action.Type {
	case WishlistAddItem:
		if action.ProductID == "" || state.Contains(action.ProductID) {
			return state
		}
		return WishlistState{IDs: append(append([]string(nil), state.IDs...), action.ProductID)}

	case WishlistRemoveItem:
		if !state.Contains(action.ProductID) {
			return state
		}
		next := make([]string, 0, len(state.IDs)-1)
		for _, id := range state.IDs {
			if id != action.ProductID {
				next = append(next, id)
			}
		}
		return WishlistState{IDs: next}

	case WishlistToggle:
		if state.Contains(action.ProductID) {
			return ReduceWishlist(state, WishlistAction{Type: WishlistRemoveItem, ProductID: action.ProductID})
		}
		return ReduceWishlist(state, WishlistAction{Type: WishlistAddItem, ProductID: action.ProductID})

	case WishlistLoad:
		next := WishlistState{}
		for _, id := range action.IDs {
			if id != "" && !next.Contains(id) {
				next.IDs = append(next.IDs, id)
			}
		}
		return next
	}
	return state
}
