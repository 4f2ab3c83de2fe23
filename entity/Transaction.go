package entity

import (
	"gorm.io/gorm"
)

// Transaction holds what the payment gateway reported for an order.
// One row per order: webhook re-deliveries upsert instead of insert.
type Transaction struct {
	gorm.Model
	OrderID uint  `json:"orderId" gorm:"uniqueIndex"`
	Order   Order `json:"-"`

	Currency    string `json:"currency"`
	GrossAmount int64  `json:"grossAmount"`
	Bank        string `json:"bank"`
	VANumber    string `json:"vaNumber"`
	PaymentType string `json:"paymentType"`

	TaxAmount int64 `json:"taxAmount"`
	NetAmount int64 `json:"netAmount"`

	// Shipping snapshot carried in the gateway's custom fields.
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
}
