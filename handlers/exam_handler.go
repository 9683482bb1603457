package handlers

import (
	"net/http"

	"examhub/services"

	"github.com/gin-gonic/gin"
)

// ExamHandler exposes the authoring surface: exam and question CRUD, the
// draft/published toggle, and bulk import. All routes sit behind the admin
// guard; responses carry the full exam fields including correct answers.
type ExamHandler struct {
	examService   *services.ExamService
	importService *services.ImportService
}

func NewExamHandler(examService *services.ExamService, importService *services.ImportService) *ExamHandler {
	return &ExamHandler{
		examService:   examService,
		importService: importService,
	}
}

func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.examService.CreateExam(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.ListExams()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, err := h.examService.GetExam(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) UpdateExam(c *gin.Context) {
	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.examService.UpdateExam(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) DeleteExam(c *gin.Context) {
	if err := h.examService.DeleteExam(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted successfully"})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ExamHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.examService.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) AddQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.examService.AddQuestion(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *ExamHandler) UpdateQuestion(c *gin.Context) {
	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.examService.UpdateQuestion(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *ExamHandler) DeleteQuestion(c *gin.Context) {
	if err := h.examService.DeleteQuestion(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *ExamHandler) ImportExam(c *gin.Context) {
	var doc services.ImportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.importService.ImportExam(&doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"exam_id": exam.ID,
		"message": "Exam imported successfully",
	})
}
