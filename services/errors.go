package services

import "errors"

// Domain errors the controllers map onto HTTP classes.
var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMenuNotInCart     = errors.New("menu does not belong to the cart restaurant")
	ErrInvalidSignature  = errors.New("invalid signature key")
	ErrAddOnSelection    = errors.New("invalid add-on selection")
)
