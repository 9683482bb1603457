package handlers

import (
	"net/http"

	"examhub/models"
	"examhub/services"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	gradingService *services.GradingService
	resultService  *services.ResultService
}

func NewSubmissionHandler(gradingService *services.GradingService, resultService *services.ResultService) *SubmissionHandler {
	return &SubmissionHandler{
		gradingService: gradingService,
		resultService:  resultService,
	}
}

type submitAnswersRequest struct {
	Answers models.AnswerMap `json:"answers"`
}

func (h *SubmissionHandler) SubmitAnswers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.gradingService.SubmitAnswers(c.Param("id"), userID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"submission_id":   submission.ID,
		"score":           submission.Score,
		"total_questions": submission.TotalQuestions,
		"message":         "Answers submitted successfully",
	})
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	submission, err := h.resultService.GetSubmission(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	submissions, err := h.resultService.ListUserSubmissions(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}
