package statemachine

import (
	"errors"

	"github.com/edsotopublicidad-gif/Sotos-App/models"
)

// Transition defines a valid happy-path state change and which order types it applies to
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Types []models.OrderType // nil means any order type
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Kitchen accepts the order
	{From: models.StatusPendiente, To: models.StatusEnProceso},
	// Kitchen finishes preparing
	{From: models.StatusEnProceso, To: models.StatusListaParaEntrega},
	// Table and pickup orders are handed over directly
	{From: models.StatusListaParaEntrega, To: models.StatusEntregada, Types: []models.OrderType{models.TypeMesa, models.TypePickup}},
	// Delivery orders go out first
	{From: models.StatusListaParaEntrega, To: models.StatusEnCamino, Types: []models.OrderType{models.TypeDelivery}},
	{From: models.StatusEnCamino, To: models.StatusEntregada, Types: []models.OrderType{models.TypeDelivery}},
	// Settling a delivered order completes it
	{From: models.StatusEntregada, To: models.StatusPagada},
	// Any non-terminal order can be cancelled
	{From: models.StatusPendiente, To: models.StatusCancelada},
	{From: models.StatusEnProceso, To: models.StatusCancelada},
	{From: models.StatusListaParaEntrega, To: models.StatusCancelada},
	{From: models.StatusEnCamino, To: models.StatusCancelada},
	{From: models.StatusEntregada, To: models.StatusCancelada},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Type models.OrderType
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		types := t.Types
		if types == nil {
			types = []models.OrderType{models.TypeMesa, models.TypeDelivery, models.TypePickup}
		}
		for _, typ := range types {
			m[transitionKey{t.From, t.To, typ}] = true
		}
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states for an order type in a given state
func ValidTransitionsFrom(status models.OrderStatus, orderType models.OrderType) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From != status || seen[t.To] {
			continue
		}
		if transitionMap[transitionKey{t.From, t.To, orderType}] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether an order of the given type may move between two states
func CanTransition(from, to models.OrderStatus, orderType models.OrderType) error {
	if transitionMap[transitionKey{From: from, To: to, Type: orderType}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for a '" + string(orderType) + "' order. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from, orderType),
	)
}

func describeValidFrom(status models.OrderStatus, orderType models.OrderType) string {
	nexts := ValidTransitionsFrom(status, orderType)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
