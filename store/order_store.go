package store

import (
	"errors"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/statemachine"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrMissingTable     = errors.New("table number is required for mesa orders")
	ErrMissingCustomer  = errors.New("customer name is required for delivery and pickup orders")
	ErrInvalidOrderType = errors.New("order type must be mesa, delivery or pickup")
	ErrUnknownMenuItem  = errors.New("menu item not found")
	ErrItemUnavailable  = errors.New("menu item is not available")
	ErrInvalidQuantity  = errors.New("item quantity must be at least 1")
)

// OrderStore owns the order collection and every lifecycle operation on it.
type OrderStore struct {
	db  *gorm.DB
	bus *events.Bus
	log *zap.Logger
}

func NewOrderStore(db *gorm.DB, bus *events.Bus, log *zap.Logger) *OrderStore {
	return &OrderStore{db: db, bus: bus, log: log}
}

// DraftItem references a menu item to order. Name and price are snapshotted
// from the menu at creation time.
type DraftItem struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// OrderDraft is a new order as submitted by a waiter, delivery or jefe client.
type OrderDraft struct {
	Type             models.OrderType     `json:"type" binding:"required"`
	Table            string               `json:"table"`
	CustomerName     string               `json:"customer_name"`
	Notes            string               `json:"notes"`
	Status           models.OrderStatus   `json:"status"` // only "pagada" is honored: it marks pre-payment
	WaiterID         string               `json:"waiter_id" binding:"required"`
	WaiterName       string               `json:"waiter_name"`
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	PaymentReference string               `json:"payment_reference"`
	Items            []DraftItem          `json:"items" binding:"required"`
}

// AddOrder validates a draft, snapshots its menu items and stores it.
// Every order starts in the kitchen queue: a draft asking for "pagada"
// only records that money already changed hands, it does not skip the line.
func (s *OrderStore) AddOrder(draft OrderDraft, origin string) (*models.Order, error) {
	switch draft.Type {
	case models.TypeMesa:
		if draft.Table == "" {
			return nil, ErrMissingTable
		}
	case models.TypeDelivery, models.TypePickup:
		if draft.CustomerName == "" {
			return nil, ErrMissingCustomer
		}
	default:
		return nil, ErrInvalidOrderType
	}
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(draft.Items))
	for _, di := range draft.Items {
		if di.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		var menuItem models.MenuItem
		if err := s.db.First(&menuItem, "id = ?", di.MenuItemID).Error; err != nil {
			return nil, ErrUnknownMenuItem
		}
		if menuItem.IsDisabled {
			return nil, ErrItemUnavailable
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   di.Quantity,
		})
	}

	now := time.Now()
	order := models.Order{
		ID:               uuid.NewString(),
		Type:             draft.Type,
		Table:            draft.Table,
		CustomerName:     draft.CustomerName,
		Items:            items,
		Status:           models.StatusPendiente,
		IsPaid:           draft.Status == models.StatusPagada,
		Notes:            draft.Notes,
		WaiterID:         draft.WaiterID,
		WaiterName:       draft.WaiterName,
		PaymentMethod:    draft.PaymentMethod,
		PaymentReference: draft.PaymentReference,
		CreatedAt:        now,
		LastUpdated:      now,
	}
	order.ComputeTotal()

	if err := s.db.Create(&order).Error; err != nil {
		s.log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.publishChange(origin)
	s.notify(statemachine.CreatedNotification(), order, origin)
	if order.IsPaid {
		s.notify(statemachine.Notification{
			Kind:     statemachine.NotifyPaymentReceived,
			Audience: []models.UserRole{models.RoleMesero, models.RoleCocina, models.RoleDelivery},
		}, order, origin)
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("type", string(order.Type)),
		zap.Float64("total", order.Total))
	return &order, nil
}

// UpdateOrder applies a partial update under the reconciliation rules.
// An unknown id is a no-op; the second return value reports whether the
// order existed.
func (s *OrderStore) UpdateOrder(id string, upd models.OrderUpdate, origin string) (*models.Order, bool) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, false
	}
	prev := order

	if upd.Table != nil {
		order.Table = *upd.Table
	}
	if upd.CustomerName != nil {
		order.CustomerName = *upd.CustomerName
	}
	if upd.Notes != nil {
		order.Notes = *upd.Notes
	}
	if upd.PaymentMethod != nil {
		order.PaymentMethod = *upd.PaymentMethod
	}
	if upd.PaymentReference != nil {
		order.PaymentReference = *upd.PaymentReference
	}

	replaceItems := upd.Items != nil
	if replaceItems {
		// A quantity edited down to zero removes the line.
		kept := make([]models.OrderItem, 0, len(upd.Items))
		for _, item := range upd.Items {
			if item.Quantity <= 0 {
				continue
			}
			item.ID = 0
			item.OrderID = order.ID
			kept = append(kept, item)
		}
		order.Items = kept
	}

	resolution := statemachine.Reconcile(prev, upd)
	order.Status = resolution.Status
	order.IsPaid = resolution.IsPaid

	now := time.Now()
	order.LastUpdated = now
	if order.Status == models.StatusEnProceso && order.AcceptedAt == nil {
		order.AcceptedAt = &now
	}
	if (order.Status == models.StatusEntregada || order.Status == models.StatusPagada) && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}
	order.ComputeTotal()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if replaceItems {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if len(order.Items) > 0 {
				if err := tx.Create(&order.Items).Error; err != nil {
					return err
				}
			}
		}
		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		s.log.Error("failed to update order", zap.String("order_id", id), zap.Error(err))
		return nil, true
	}

	s.publishChange(origin)
	for _, n := range resolution.Notifications {
		s.notify(n, order, origin)
	}
	return &order, true
}

// Accept moves an order into preparation. Unlike the free-form update,
// acceptance is guarded by the state machine: the kitchen can only take
// orders still waiting in the queue.
func (s *OrderStore) Accept(id string, origin string) (*models.Order, bool, error) {
	order, found := s.ByID(id)
	if !found {
		return nil, false, nil
	}
	if err := statemachine.CanTransition(order.Status, models.StatusEnProceso, order.Type); err != nil {
		return nil, true, err
	}
	status := models.StatusEnProceso
	updated, _ := s.UpdateOrder(id, models.OrderUpdate{Status: &status}, origin)
	return updated, true, nil
}

// CancelOrder moves an order to cancelada. Payment state is untouched: a
// paid order that gets cancelled stays flagged as paid.
func (s *OrderStore) CancelOrder(id string, origin string) (*models.Order, bool) {
	status := models.StatusCancelada
	return s.UpdateOrder(id, models.OrderUpdate{Status: &status}, origin)
}

// Active returns all non-archived orders, oldest first.
func (s *OrderStore) Active() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("archived = ?", false).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// Archived returns the archived order history.
func (s *OrderStore) Archived() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("archived = ?", true).
		Order("last_updated desc").
		Find(&orders).Error
	return orders, err
}

// ByID fetches a single active or archived order.
func (s *OrderStore) ByID(id string) (*models.Order, bool) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, false
	}
	return &order, true
}

// ForWaiter filters active orders by owning waiter id. Delivery staff use
// the same namespace, so this serves both views.
func (s *OrderStore) ForWaiter(waiterID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("archived = ? AND waiter_id = ?", false, waiterID).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// ArchiveTodaysOrders moves every settled or cancelled order touched since
// local midnight out of the active set. Returns how many were archived.
func (s *OrderStore) ArchiveTodaysOrders(origin string) (int64, error) {
	midnight := localMidnight(time.Now())
	result := s.db.Model(&models.Order{}).
		Where("archived = ? AND status IN ? AND last_updated >= ?",
			false, []models.OrderStatus{models.StatusPagada, models.StatusCancelada}, midnight).
		Update("archived", true)
	if result.Error != nil {
		s.log.Error("failed to archive orders", zap.Error(result.Error))
		return 0, result.Error
	}
	s.publishChange(origin)
	s.bus.Publish(events.Event{Key: events.KeyArchivedOrders, Origin: origin})
	s.log.Info("archived today's orders", zap.Int64("count", result.RowsAffected))
	return result.RowsAffected, nil
}

// ClearWaiterSoldOrders permanently removes a waiter's settled orders from
// the active set at the end of a shift. Archived history is untouched.
func (s *OrderStore) ClearWaiterSoldOrders(waiterID, origin string) (int64, error) {
	return s.clearActive(origin, "waiter_id = ? AND status = ?", waiterID, models.StatusPagada)
}

// ClearDeliverySoldOrders is the delivery-side shift reset; delivery ids
// live in the waiter id namespace.
func (s *OrderStore) ClearDeliverySoldOrders(deliveryID, origin string) (int64, error) {
	return s.clearActive(origin, "waiter_id = ? AND status = ?", deliveryID, models.StatusPagada)
}

// ClearWaiterCancelledOrders permanently removes a waiter's cancelled orders.
func (s *OrderStore) ClearWaiterCancelledOrders(waiterID, origin string) (int64, error) {
	return s.clearActive(origin, "waiter_id = ? AND status = ?", waiterID, models.StatusCancelada)
}

// ClearKitchenCompletedOrders removes every order the kitchen is done with.
// This is a view reset, not archival: the kitchen never sees sales history.
func (s *OrderStore) ClearKitchenCompletedOrders(origin string) (int64, error) {
	done := []models.OrderStatus{
		models.StatusListaParaEntrega,
		models.StatusEnCamino,
		models.StatusEntregada,
		models.StatusPagada,
	}
	return s.clearActive(origin, "status IN ?", done)
}

func (s *OrderStore) clearActive(origin string, query string, args ...any) (int64, error) {
	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Order{}).
			Where("archived = ?", false).
			Where(query, args...).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		removed = int64(len(ids))
		return nil
	})
	if err != nil {
		s.log.Error("failed to clear orders", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.publishChange(origin)
	}
	return removed, nil
}

func (s *OrderStore) publishChange(origin string) {
	s.bus.Publish(events.Event{Key: events.KeyOrders, Origin: origin})
}

func (s *OrderStore) notify(n statemachine.Notification, order models.Order, origin string) {
	s.bus.Publish(events.Event{
		Key:      events.KeyOrders,
		Payload:  order.Identifier(),
		Sound:    string(n.Kind),
		Origin:   origin,
		Audience: n.Audience,
	})
}

func localMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
