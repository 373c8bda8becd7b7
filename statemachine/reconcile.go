package statemachine

import "github.com/edsotopublicidad-gif/Sotos-App/models"

// NotificationKind names the sound/toast a client should raise for an event
type NotificationKind string

const (
	NotifyOrderCreated    NotificationKind = "order_created"
	NotifyPaymentReceived NotificationKind = "payment_received"
	NotifyOrderReady      NotificationKind = "order_ready"
)

// Notification is a side-effect of a reconciliation, addressed to a set of roles
type Notification struct {
	Kind     NotificationKind  `json:"kind"`
	Audience []models.UserRole `json:"audience"`
}

// Resolution is the outcome of reconciling a partial update against an order
type Resolution struct {
	Status        models.OrderStatus
	IsPaid        bool
	Notifications []Notification
}

// CreatedNotification is fired when a new order enters the kitchen queue.
// The kitchen itself never gets notified of its own writes; the hub
// suppresses the originating client.
func CreatedNotification() Notification {
	return Notification{
		Kind:     NotifyOrderCreated,
		Audience: []models.UserRole{models.RoleCocina, models.RoleJefe},
	}
}

// Reconcile applies the status/payment reconciliation rules to a partial
// update of an existing order. The rules run in a fixed sequence; each one
// sees the result of the previous ones.
func Reconcile(prev models.Order, upd models.OrderUpdate) Resolution {
	res := Resolution{Status: prev.Status, IsPaid: prev.IsPaid}
	if upd.Status != nil {
		res.Status = *upd.Status
	}
	if upd.IsPaid != nil {
		res.IsPaid = *upd.IsPaid
	}

	// 1. Payment arriving in this update rings the register everywhere
	//    but the jefe's own report view.
	if upd.IsPaid != nil && *upd.IsPaid && !prev.IsPaid {
		res.Notifications = append(res.Notifications, Notification{
			Kind:     NotifyPaymentReceived,
			Audience: []models.UserRole{models.RoleMesero, models.RoleCocina, models.RoleDelivery},
		})
	}

	// 2. A delivered order that is paid is settled.
	if res.IsPaid && res.Status == models.StatusEntregada {
		res.Status = models.StatusPagada
	}

	// 3. Delivering an already-paid order settles it too.
	if upd.Status != nil && *upd.Status == models.StatusEntregada && res.IsPaid {
		res.Status = models.StatusPagada
	}

	// 4. "pagada" written directly records the payment but only sticks if
	//    the order already made it through the kitchen; otherwise the
	//    status snaps back so the payment cannot skip the flow.
	if upd.Status != nil && *upd.Status == models.StatusPagada {
		res.IsPaid = true
		switch prev.Status {
		case models.StatusEntregada, models.StatusListaParaEntrega, models.StatusEnCamino:
			res.Status = models.StatusPagada
		default:
			res.Status = prev.Status
		}
	}

	// 5. An order becoming ready pings whoever hands it over.
	if upd.Status != nil && *upd.Status == models.StatusListaParaEntrega && prev.Status != models.StatusListaParaEntrega {
		audience := []models.UserRole{models.RoleMesero, models.RoleJefe}
		if prev.Type == models.TypeDelivery {
			audience = []models.UserRole{models.RoleDelivery, models.RoleJefe}
		}
		res.Notifications = append(res.Notifications, Notification{
			Kind:     NotifyOrderReady,
			Audience: audience,
		})
	}

	return res
}
