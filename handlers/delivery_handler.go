package handlers

import (
	"net/http"

	"examhub/services"

	"github.com/gin-gonic/gin"
)

// DeliveryHandler serves the exam-taking flow: published listings and the
// sanitized taking projection.
type DeliveryHandler struct {
	deliveryService *services.DeliveryService
}

func NewDeliveryHandler(deliveryService *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

func (h *DeliveryHandler) ListPublishedExams(c *gin.Context) {
	exams, err := h.deliveryService.ListPublishedExams()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *DeliveryHandler) GetExamForTaking(c *gin.Context) {
	exam, err := h.deliveryService.GetExamForTaking(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}
