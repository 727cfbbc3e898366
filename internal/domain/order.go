package domain

import "time"

type OrderStatus string

const (
	OrderUnconfirmed OrderStatus = "unconfirmed"
	OrderConfirmed   OrderStatus = "confirmed"
	OrderCancelled   OrderStatus = "cancelled"
	OrderPaid        OrderStatus = "paid"
)

// Order is one vendor-owed line item ingested from the application API.
type Order struct {
	ID            string
	ApplicationID string
	VendorID      string
	Total         float64
	Currency      string
	Status        OrderStatus
	TransferID    string
	AccountingID  string
	PayoutID      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderRepository interface {
	GetOrderByID(orderID string) (*Order, error)
	GetOrdersByTransferID(transferID string) ([]*Order, error)
	GetUnpackedOrders(applicationID string) ([]*Order, error)
}
