package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPendiente        OrderStatus = "pendiente" // waiting for the kitchen to accept
	StatusEnProceso        OrderStatus = "en_proceso"
	StatusListaParaEntrega OrderStatus = "lista_para_entrega"
	StatusEnCamino         OrderStatus = "en_camino" // delivery orders only
	StatusEntregada        OrderStatus = "entregada"
	StatusPagada           OrderStatus = "pagada" // delivered and paid, fully settled
	StatusCancelada        OrderStatus = "cancelada"
)

// OrderType tells where the order is headed: a table, a delivery run or the pickup counter
type OrderType string

const (
	TypeMesa     OrderType = "mesa"
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

// PaymentMethod enumerates the accepted ways of settling an order
type PaymentMethod string

const (
	PaymentPagoMovil     PaymentMethod = "pago_movil"
	PaymentTransferencia PaymentMethod = "transferencia"
	PaymentEfectivo      PaymentMethod = "efectivo"
	PaymentDivisas       PaymentMethod = "divisas"
	PaymentNFC           PaymentMethod = "nfc"
)

type Order struct {
	ID               string        `json:"id" gorm:"primaryKey"`
	Type             OrderType     `json:"type" gorm:"not null"`
	Table            string        `json:"table,omitempty"`         // required iff type=mesa
	CustomerName     string        `json:"customer_name,omitempty"` // required iff type=delivery|pickup
	Items            []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	Total            float64       `json:"total"`
	Status           OrderStatus   `json:"status" gorm:"not null;default:'pendiente';index"`
	IsPaid           bool          `json:"is_paid"` // payment tracked independently of status
	Notes            string        `json:"notes,omitempty"`
	WaiterID         string        `json:"waiter_id" gorm:"index"`
	WaiterName       string        `json:"waiter_name"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	Archived         bool          `json:"archived" gorm:"index;default:false"`
	CreatedAt        time.Time     `json:"created_at"`
	AcceptedAt       *time.Time    `json:"accepted_at,omitempty"` // when the kitchen takes the order
	DeliveredAt      *time.Time    `json:"delivered_at,omitempty"`
	LastUpdated      time.Time     `json:"last_updated" gorm:"index"`
}

type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey"`
	OrderID    string  `json:"-" gorm:"index;not null"`
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`  // snapshot name at time of order
	Price      float64 `json:"price"` // snapshot price at time of order
	Quantity   int     `json:"quantity" gorm:"not null"`
}

// LineTotal returns price times quantity for a single order line.
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ComputeTotal recomputes the order total from its item snapshots.
// The stored total is never patched incrementally.
func (o *Order) ComputeTotal() {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	o.Total = total
}

// Identifier is the human label used in notifications: the table number,
// the delivery run, or the pickup customer.
func (o Order) Identifier() string {
	switch o.Type {
	case TypeMesa:
		return "Mesa #" + o.Table
	case TypeDelivery:
		return "Pedido a Domicilio"
	case TypePickup:
		return "Pedido de " + o.CustomerName
	}
	return "Orden"
}

// OrderUpdate is a partial update applied to an existing order.
// Nil fields are left untouched.
type OrderUpdate struct {
	Status           *OrderStatus   `json:"status,omitempty"`
	IsPaid           *bool          `json:"is_paid,omitempty"`
	Items            []OrderItem    `json:"items,omitempty"`
	Table            *string        `json:"table,omitempty"`
	CustomerName     *string        `json:"customer_name,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	PaymentMethod    *PaymentMethod `json:"payment_method,omitempty"`
	PaymentReference *string        `json:"payment_reference,omitempty"`
}
