package store

import (
	"testing"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database. The pool is pinned to one
// connection so every query sees the same :memory: instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.RolePassword{},
		&models.Broadcast{},
	))
	return db
}

type testEnv struct {
	db         *gorm.DB
	bus        *events.Bus
	orders     *OrderStore
	menu       *MenuStore
	reports    *ReportStore
	auth       *AuthStore
	broadcasts *BroadcastStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	bus := events.NewBus()
	log := zap.NewNop()
	return &testEnv{
		db:         db,
		bus:        bus,
		orders:     NewOrderStore(db, bus, log),
		menu:       NewMenuStore(db, bus, log),
		reports:    NewReportStore(db, bus, log),
		auth:       NewAuthStore(db, bus, log),
		broadcasts: NewBroadcastStore(db, bus, log),
	}
}

func (e *testEnv) seedMenuItem(t *testing.T, name string, price float64, rank int) models.MenuItem {
	t.Helper()
	item := models.MenuItem{ID: uuid.NewString(), Name: name, Price: price, Rank: rank}
	require.NoError(t, e.db.Create(&item).Error)
	return item
}

// seedOrder inserts an order row directly, bypassing the store, so tests
// can control timestamps and archive state.
func (e *testEnv) seedOrder(t *testing.T, order models.Order) models.Order {
	t.Helper()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Type == "" {
		order.Type = models.TypeMesa
		order.Table = "1"
	}
	if order.Status == "" {
		order.Status = models.StatusPendiente
	}
	require.NoError(t, e.db.Create(&order).Error)
	return order
}

// drainEvents empties the subscription channel and returns what was queued.
func drainEvents(ch <-chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func statusPtr(s models.OrderStatus) *models.OrderStatus { return &s }

func boolPtr(b bool) *bool { return &b }

func dayAt(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.Local)
}
