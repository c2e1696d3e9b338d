package handlers

import (
	"net/http"

	"smart-restaurant-api/models"
	"smart-restaurant-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo describes the order lifecycle and the active policy
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	mode := "permissive"
	if _, strict := h.policy.(statemachine.Strict); strict {
		mode = "strict"
	}
	var final []models.OrderStatus
	for _, s := range models.AllStatuses {
		if statemachine.IsFinal(s) {
			final = append(final, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":       models.AllStatuses,
		"initial_status": models.StatusPending,
		"state_machine":  statemachine.GetAllTransitions(),
		"final_states":   final,
		"mode":           mode,
		"description":    "Restaurant Order Lifecycle State Machine",
	})
}

// Recommend returns the best scoring meals for a customer
func (h *Handler) Recommend(c *gin.Context) {
	id, ok := pathID(c, "customer_id")
	if !ok {
		return
	}
	recs, err := h.recommender.For(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
