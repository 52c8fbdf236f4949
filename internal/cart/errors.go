package cart

import "errors"

var (
	// ErrItemNotInCart is a domain not-found, distinct from a missing
	// or expired context.
	ErrItemNotInCart = errors.New("sku not in cart")

	// ErrCheckedOut rejects mutation of a cart whose status transition
	// to checked_out has already happened.
	ErrCheckedOut = errors.New("cart already checked out")
)
