package store

import (
	"testing"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/statemachine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrderMesaLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cono := env.seedMenuItem(t, "Cono Pizza", 5.00, 0)

	order, err := env.orders.AddOrder(OrderDraft{
		Type:     models.TypeMesa,
		Table:    "5",
		WaiterID: "mesero1",
		Items:    []DraftItem{{MenuItemID: cono.ID, Quantity: 2}},
	}, "client-a")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendiente, order.Status)
	assert.Equal(t, 10.00, order.Total)
	assert.False(t, order.IsPaid)

	// Kitchen accepts, prepares, waiter hands over.
	order, found := env.orders.UpdateOrder(order.ID, models.OrderUpdate{Status: statusPtr(models.StatusEnProceso)}, "client-b")
	require.True(t, found)
	assert.Equal(t, models.StatusEnProceso, order.Status)
	require.NotNil(t, order.AcceptedAt)

	order, _ = env.orders.UpdateOrder(order.ID, models.OrderUpdate{Status: statusPtr(models.StatusListaParaEntrega)}, "client-b")
	assert.Equal(t, models.StatusListaParaEntrega, order.Status)

	order, _ = env.orders.UpdateOrder(order.ID, models.OrderUpdate{Status: statusPtr(models.StatusEntregada)}, "client-a")
	assert.Equal(t, models.StatusEntregada, order.Status)
	assert.False(t, order.IsPaid)
	require.NotNil(t, order.DeliveredAt)

	// Payment on a delivered order settles it.
	order, _ = env.orders.UpdateOrder(order.ID, models.OrderUpdate{IsPaid: boolPtr(true)}, "client-a")
	assert.Equal(t, models.StatusPagada, order.Status)
	assert.True(t, order.IsPaid)
}

func TestAddOrderPrePaid(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem(t, "Banderilla", 4.00, 0)

	// A pre-paid pickup still has to go through the kitchen.
	order, err := env.orders.AddOrder(OrderDraft{
		Type:         models.TypePickup,
		CustomerName: "Ana",
		Status:       models.StatusPagada,
		WaiterID:     "mesero1",
		Items:        []DraftItem{{MenuItemID: item.ID, Quantity: 3}},
	}, "client-a")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPendiente, order.Status)
	assert.True(t, order.IsPaid)
	assert.Equal(t, 12.00, order.Total)
}

func TestAddOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem(t, "Cono Pizza", 5.00, 0)
	disabled := env.seedMenuItem(t, "Refresco Peq.", 2.50, 1)
	require.NoError(t, env.db.Model(&models.MenuItem{}).Where("id = ?", disabled.ID).Update("is_disabled", true).Error)

	cases := []struct {
		name    string
		draft   OrderDraft
		wantErr error
	}{
		{
			name:    "empty cart",
			draft:   OrderDraft{Type: models.TypeMesa, Table: "2", WaiterID: "m1"},
			wantErr: ErrEmptyOrder,
		},
		{
			name:    "mesa without table",
			draft:   OrderDraft{Type: models.TypeMesa, WaiterID: "m1", Items: []DraftItem{{MenuItemID: item.ID, Quantity: 1}}},
			wantErr: ErrMissingTable,
		},
		{
			name:    "delivery without customer",
			draft:   OrderDraft{Type: models.TypeDelivery, WaiterID: "d1", Items: []DraftItem{{MenuItemID: item.ID, Quantity: 1}}},
			wantErr: ErrMissingCustomer,
		},
		{
			name:    "pickup without customer",
			draft:   OrderDraft{Type: models.TypePickup, WaiterID: "m1", Items: []DraftItem{{MenuItemID: item.ID, Quantity: 1}}},
			wantErr: ErrMissingCustomer,
		},
		{
			name:    "unknown order type",
			draft:   OrderDraft{Type: "barra", WaiterID: "m1", Items: []DraftItem{{MenuItemID: item.ID, Quantity: 1}}},
			wantErr: ErrInvalidOrderType,
		},
		{
			name:    "unknown menu item",
			draft:   OrderDraft{Type: models.TypeMesa, Table: "2", WaiterID: "m1", Items: []DraftItem{{MenuItemID: "nope", Quantity: 1}}},
			wantErr: ErrUnknownMenuItem,
		},
		{
			name:    "disabled menu item",
			draft:   OrderDraft{Type: models.TypeMesa, Table: "2", WaiterID: "m1", Items: []DraftItem{{MenuItemID: disabled.ID, Quantity: 1}}},
			wantErr: ErrItemUnavailable,
		},
		{
			name:    "zero quantity",
			draft:   OrderDraft{Type: models.TypeMesa, Table: "2", WaiterID: "m1", Items: []DraftItem{{MenuItemID: item.ID, Quantity: 0}}},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.orders.AddOrder(tc.draft, "client-a")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Nothing was stored.
	active, err := env.orders.Active()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAddOrderNotifications(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedMenuItem(t, "Cono Pizza", 5.00, 0)
	ch, cancel := env.bus.Subscribe()
	defer cancel()

	_, err := env.orders.AddOrder(OrderDraft{
		Type:     models.TypeMesa,
		Table:    "3",
		Status:   models.StatusPagada,
		WaiterID: "mesero1",
		Items:    []DraftItem{{MenuItemID: item.ID, Quantity: 1}},
	}, "client-a")
	require.NoError(t, err)

	var sounds []string
	for _, e := range drainEvents(ch) {
		if e.Sound != "" {
			sounds = append(sounds, e.Sound)
			assert.Equal(t, "client-a", e.Origin)
		}
	}
	// Kitchen gets the new-order ding, everyone but the jefe the register.
	assert.Equal(t, []string{string(statemachine.NotifyOrderCreated), string(statemachine.NotifyPaymentReceived)}, sounds)
}

func TestUpdateOrderUnknownIDIsNoop(t *testing.T) {
	env := newTestEnv(t)
	order, found := env.orders.UpdateOrder("missing", models.OrderUpdate{Status: statusPtr(models.StatusEnProceso)}, "c")
	assert.False(t, found)
	assert.Nil(t, order)
}

func TestDirectPagadaRevertsFromKitchenQueue(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedOrder(t, models.Order{Status: models.StatusEnProceso, WaiterID: "m1"})

	order, found := env.orders.UpdateOrder(seeded.ID, models.OrderUpdate{Status: statusPtr(models.StatusPagada)}, "c")
	require.True(t, found)
	assert.Equal(t, models.StatusEnProceso, order.Status)
	assert.True(t, order.IsPaid)
}

func TestAcceptOrderGuardsTransition(t *testing.T) {
	env := newTestEnv(t)
	pending := env.seedOrder(t, models.Order{Status: models.StatusPendiente})
	delivered := env.seedOrder(t, models.Order{Status: models.StatusEntregada})

	order, found, err := env.orders.Accept(pending.ID, "c")
	require.True(t, found)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnProceso, order.Status)
	require.NotNil(t, order.AcceptedAt)

	// Accepting an order the kitchen is already done with is refused.
	_, found, err = env.orders.Accept(delivered.ID, "c")
	require.True(t, found)
	assert.Error(t, err)

	stored, ok := env.orders.ByID(delivered.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusEntregada, stored.Status)

	_, found, _ = env.orders.Accept("missing", "c")
	assert.False(t, found)
}

func TestCancelOrderPreservesPayment(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedOrder(t, models.Order{Status: models.StatusListaParaEntrega, IsPaid: true, WaiterID: "m1"})

	order, found := env.orders.CancelOrder(seeded.ID, "c")
	require.True(t, found)
	assert.Equal(t, models.StatusCancelada, order.Status)
	assert.True(t, order.IsPaid)
}

func TestUpdateOrderItemsRecomputeTotal(t *testing.T) {
	env := newTestEnv(t)
	cono := env.seedMenuItem(t, "Cono Pizza", 5.00, 0)
	papas := env.seedMenuItem(t, "Rac. Papas Fritas", 4.00, 1)

	order, err := env.orders.AddOrder(OrderDraft{
		Type:     models.TypeMesa,
		Table:    "7",
		WaiterID: "m1",
		Items: []DraftItem{
			{MenuItemID: cono.ID, Quantity: 2},
			{MenuItemID: papas.ID, Quantity: 1},
		},
	}, "c")
	require.NoError(t, err)
	require.Equal(t, 14.00, order.Total)

	// Dropping the papas to zero removes the line; the total follows.
	order, found := env.orders.UpdateOrder(order.ID, models.OrderUpdate{
		Items: []models.OrderItem{
			{MenuItemID: cono.ID, Name: "Cono Pizza", Price: 5.00, Quantity: 3},
			{MenuItemID: papas.ID, Name: "Rac. Papas Fritas", Price: 4.00, Quantity: 0},
		},
	}, "c")
	require.True(t, found)
	assert.Equal(t, 15.00, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Cono Pizza", order.Items[0].Name)

	// The stored rows match the in-memory view.
	stored, found := env.orders.ByID(order.ID)
	require.True(t, found)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, 15.00, stored.Total)
}

func TestArchiveTodaysOrders(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	paidToday := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, LastUpdated: now})
	cancelledToday := env.seedOrder(t, models.Order{Status: models.StatusCancelada, LastUpdated: now})
	pendingToday := env.seedOrder(t, models.Order{Status: models.StatusPendiente, LastUpdated: now})
	paidYesterday := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, LastUpdated: now.AddDate(0, 0, -1)})

	archived, err := env.orders.ArchiveTodaysOrders("c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), archived)

	active, err := env.orders.Active()
	require.NoError(t, err)
	history, err := env.orders.Archived()
	require.NoError(t, err)

	activeIDs := map[string]bool{}
	for _, o := range active {
		activeIDs[o.ID] = true
	}
	assert.True(t, activeIDs[pendingToday.ID])
	assert.True(t, activeIDs[paidYesterday.ID])
	assert.False(t, activeIDs[paidToday.ID])
	assert.False(t, activeIDs[cancelledToday.ID])

	// Active and archive sets are disjoint.
	for _, o := range history {
		assert.False(t, activeIDs[o.ID])
	}
	assert.Len(t, history, 2)
}

func TestClearWaiterOrders(t *testing.T) {
	env := newTestEnv(t)

	mine := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, WaiterID: "mesero1"})
	mineCancelled := env.seedOrder(t, models.Order{Status: models.StatusCancelada, WaiterID: "mesero1"})
	minePending := env.seedOrder(t, models.Order{Status: models.StatusPendiente, WaiterID: "mesero1"})
	theirs := env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true, WaiterID: "mesero2"})

	removed, err := env.orders.ClearWaiterSoldOrders("mesero1", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = env.orders.ClearWaiterCancelledOrders("mesero1", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := env.orders.Active()
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, o := range remaining {
		ids[o.ID] = true
	}
	assert.False(t, ids[mine.ID])
	assert.False(t, ids[mineCancelled.ID])
	assert.True(t, ids[minePending.ID])
	assert.True(t, ids[theirs.ID])
}

func TestClearKitchenCompletedOrders(t *testing.T) {
	env := newTestEnv(t)

	env.seedOrder(t, models.Order{Status: models.StatusListaParaEntrega})
	env.seedOrder(t, models.Order{Status: models.StatusEnCamino, Type: models.TypeDelivery, CustomerName: "Ana"})
	env.seedOrder(t, models.Order{Status: models.StatusEntregada})
	env.seedOrder(t, models.Order{Status: models.StatusPagada, IsPaid: true})
	pending := env.seedOrder(t, models.Order{Status: models.StatusPendiente})
	inProgress := env.seedOrder(t, models.Order{Status: models.StatusEnProceso})

	removed, err := env.orders.ClearKitchenCompletedOrders("c")
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)

	remaining, err := env.orders.Active()
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	ids := map[string]bool{remaining[0].ID: true, remaining[1].ID: true}
	assert.True(t, ids[pending.ID])
	assert.True(t, ids[inProgress.ID])
}

func TestForWaiterFiltersByOwner(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrder(t, models.Order{WaiterID: "mesero1"})
	env.seedOrder(t, models.Order{WaiterID: "mesero1"})
	env.seedOrder(t, models.Order{WaiterID: "delivery1", Type: models.TypeDelivery, CustomerName: "Luis"})

	mine, err := env.orders.ForWaiter("mesero1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	runs, err := env.orders.ForWaiter("delivery1")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
