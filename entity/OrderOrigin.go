package entity

// OrderOrigin records whether the order came from an accumulated cart
// or a direct single-item checkout.
type OrderOrigin string

const (
	OriginCart     OrderOrigin = "CART"
	OriginCheckout OrderOrigin = "CHECKOUT"
)
