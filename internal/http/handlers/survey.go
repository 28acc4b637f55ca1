package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type SurveyHandler struct {
	svc services.SurveyService
}

func NewSurveyHandler(svc services.SurveyService) *SurveyHandler {
	return &SurveyHandler{svc: svc}
}

func (h *SurveyHandler) ListQuestions(c *gin.Context) {
	qs, err := h.svc.ListQuestions(c.Request.Context(), repos.QuestionFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	})
	if err != nil {
		response.RespondAPIError(c, err, "questions_failed")
		return
	}
	response.RespondOK(c, data(qs))
}

func (h *SurveyHandler) GetQuestion(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	q, err := h.svc.GetQuestion(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "question_failed")
		return
	}
	response.RespondOK(c, data(q))
}

func (h *SurveyHandler) CreateQuestion(c *gin.Context) {
	var req services.NewQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	q, err := h.svc.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "question_create_failed")
		return
	}
	response.RespondCreated(c, data(q))
}

func (h *SurveyHandler) SaveAnswer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req services.AnswerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.svc.SaveAnswer(c.Request.Context(), p, req); err != nil {
		response.RespondAPIError(c, err, "answer_save_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Answer saved successfully"})
}

func (h *SurveyHandler) Submit(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		Answers []services.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), p, req.Answers)
	if err != nil {
		response.RespondAPIError(c, err, "survey_submit_failed")
		return
	}
	response.RespondOK(c, data(res))
}

func (h *SurveyHandler) CompletionStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	status, err := h.svc.CompletionStatus(c.Request.Context(), p.UserID)
	if err != nil {
		response.RespondAPIError(c, err, "completion_status_failed")
		return
	}
	response.RespondOK(c, data(status))
}

func (h *SurveyHandler) MyAnswers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	answers, err := h.svc.MyAnswers(c.Request.Context(), p)
	if err != nil {
		response.RespondAPIError(c, err, "answers_failed")
		return
	}
	response.RespondOK(c, data(answers))
}
