package handlers

import (
	"net/http"

	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo documents the order state machine (great for docs/Postman)
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()

	formatted := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		types := t.Types
		if types == nil {
			types = []models.OrderType{models.TypeMesa, models.TypeDelivery, models.TypePickup}
		}
		formatted = append(formatted, gin.H{
			"from":        t.From,
			"to":          t.To,
			"order_types": types,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"description": "Order lifecycle state machine. Payment (is_paid) is tracked separately: reaching 'pagada' requires both payment and at least 'lista_para_entrega'.",
		"states": []models.OrderStatus{
			models.StatusPendiente,
			models.StatusEnProceso,
			models.StatusListaParaEntrega,
			models.StatusEnCamino,
			models.StatusEntregada,
			models.StatusPagada,
			models.StatusCancelada,
		},
		"transitions": formatted,
	})
}
