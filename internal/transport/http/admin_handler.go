package http

import (
	"net/http"
	"strconv"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin *app.AdminService
	quiz  *app.QuizService
}

func NewAdminHandler(admin *app.AdminService, quiz *app.QuizService) *AdminHandler {
	return &AdminHandler{admin: admin, quiz: quiz}
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Whatsapp string `json:"whatsapp"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type AttemptsRequest struct {
	MaxAttempts *int `json:"maxAttempts" binding:"required,min=-1"`
}

type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required,min=0"`
	Points        int      `json:"points" binding:"min=0"`
}

type UpdateSettingsRequest struct {
	TimeLimit   *int  `json:"timeLimit" binding:"required,min=0"`
	ShowAnswers *bool `json:"showAnswers" binding:"required"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.Users(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.admin.CreateUser(c.Request.Context(), app.UserInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	id := c.Param("id")
	if current := c.MustGet(adminKey).(domain.Candidate); current.ID == id && !req.IsAdmin {
		respondError(c, domain.Invalid("you cannot remove your own admin rights"))
		return
	}
	user, err := h.admin.UpdateUser(c.Request.Context(), id, app.UserInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdateAttempts(c *gin.Context) {
	var req AttemptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	id := c.Param("id")
	if err := h.admin.SetMaxAttempts(c.Request.Context(), id, *req.MaxAttempts); err != nil {
		respondError(c, err)
		return
	}
	status, err := h.quiz.CanAttempt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if current := c.MustGet(adminKey).(domain.Candidate); current.ID == id {
		respondError(c, domain.Invalid("you cannot delete your own account"))
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "user deleted"})
}

func (h *AdminHandler) ListQuestions(c *gin.Context) {
	questions, err := h.admin.Questions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *AdminHandler) AddQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q, err := h.admin.AddQuestion(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q := req.toDomain(id)
	if err := h.admin.UpdateQuestion(c.Request.Context(), q); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.quiz.Question(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteQuestion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "question deleted"})
}

func (h *AdminHandler) Settings(c *gin.Context) {
	settings, err := h.quiz.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	settings, err := h.admin.UpdateSettings(c.Request.Context(), *req.TimeLimit, *req.ShowAnswers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (r QuestionRequest) toDomain(id int64) domain.Question {
	return domain.Question{
		ID:            id,
		Text:          r.Text,
		Options:       r.Options,
		CorrectAnswer: *r.CorrectAnswer,
		Points:        r.Points,
	}
}

func questionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domain.Invalid("question id must be a positive integer"))
		return 0, false
	}
	return id, true
}
