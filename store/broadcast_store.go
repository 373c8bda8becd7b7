package store

import (
	"errors"
	"strings"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEmptyBroadcast = errors.New("broadcast message must not be empty")

// BroadcastStore holds the single most-recent announcement. A new message
// replaces the old one; clients ack per timestamp on their side.
type BroadcastStore struct {
	db  *gorm.DB
	bus *events.Bus
	log *zap.Logger
}

func NewBroadcastStore(db *gorm.DB, bus *events.Bus, log *zap.Logger) *BroadcastStore {
	return &BroadcastStore{db: db, bus: bus, log: log}
}

// Publish stores and announces a new broadcast, most-recent-wins.
func (s *BroadcastStore) Publish(message string, origin string) (*models.Broadcast, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyBroadcast
	}
	b := models.Broadcast{ID: 1, Message: message, Timestamp: time.Now()}
	if err := s.db.Save(&b).Error; err != nil {
		s.log.Error("failed to store broadcast", zap.Error(err))
		return nil, err
	}
	s.bus.Publish(events.Event{
		Key:     events.KeyBroadcast,
		Payload: b,
		Sound:   "broadcast",
		Origin:  origin,
	})
	return &b, nil
}

// Current returns the latest broadcast, if any.
func (s *BroadcastStore) Current() (*models.Broadcast, bool) {
	var b models.Broadcast
	if err := s.db.First(&b, "id = ?", 1).Error; err != nil {
		return nil, false
	}
	return &b, true
}
