// Package reducer holds the pure in-memory state machines for the cart and
// wishlist. Reducers never touch persistence; adapters and services apply the
// resulting state to local or remote stores.
package reducer

import "seesaw/internal/domain"

// Cart actions.
const (
	CartAddItem        = "addItem"
	CartRemoveItem     = "removeItem"
	CartUpdateQuantity = "updateQuantity"
	CartToggle         = "toggleCart"
	CartClose          = "closeCart"
	CartLoad           = "loadCart"
	CartClear          = "clearCart"
)

// CartAction is one dispatched cart mutation. Which fields are read depends
// on Type.
type CartAction struct {
	Type     string
	Line     domain.CartLine
	Key      domain.VariantKey
	Quantity int
	Lines    []domain.CartLine
}

// CartState is the in-memory cart. Visible tracks the cart sidebar so a
// successful add can open it without the view layer inferring it.
type CartState struct {
	Lines   []domain.CartLine
	Visible bool
}

// TotalItems sums line quantities. Derived on every read, never cached.
func (s CartState) TotalItems() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

// SubtotalCents sums price times quantity across lines.
func (s CartState) SubtotalCents() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.TotalCents()
	}
	return total
}

// Find returns the line with the given variant key, if present.
func (s CartState) Find(key domain.VariantKey) (domain.CartLine, bool) {
	for _, l := range s.Lines {
		if l.Key() == key {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

// ReduceCart applies one action and returns the next state. The input state
// is never mutated. Unknown action types return the state unchanged.
//
// Adding an existing variant increments its quantity by the added amount.
// Quantity updates clamp to a floor of 1 here rather than trusting callers,
// so a zero-or-negative quantity can never enter the state; removing a line
// is an explicit action.
func ReduceCart(state CartState, action CartAction) CartState {
	switch action.Type {
	case CartAddItem:
		if action.Line.Quantity < 1 {
			return state
		}
		next := cloneCart(state)
		next.Visible = true
		for i, l := range next.Lines {
			if l.Key() == action.Line.Key() {
				next.Lines[i].Quantity += action.Line.Quantity
				return next
			}
		}
		next.Lines = append(next.Lines, action.Line)
		return next

	case CartRemoveItem:
		next := cloneCart(state)
		for i, l := range next.Lines {
			if l.Key() == action.Key {
				next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
				return next
			}
		}
		return state

	case CartUpdateQuantity:
		qty := action.Quantity
		if qty < 1 {
			qty = 1
		}
		next := cloneCart(state)
		for i, l := range next.Lines {
			if l.Key() == action.Key {
				next.Lines[i].Quantity = qty
				return next
			}
		}
		return state

	case CartToggle:
		next := cloneCart(state)
		next.Visible = !next.Visible
		return next

	case CartClose:
		next := cloneCart(state)
		next.Visible = false
		return next

	case CartLoad:
		next := CartState{Visible: state.Visible}
		next.Lines = append(next.Lines, action.Lines...)
		return next

	case CartClear:
		return CartState{Visible: state.Visible}
	}
	return state
}

func cloneCart(state CartState) CartState {
	next := CartState{Visible: state.Visible}
	next.Lines = append(next.Lines, state.Lines...)
	return next
}
