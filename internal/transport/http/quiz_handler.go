package http

import (
	"net/http"
	"strconv"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// questionView hides the correct answer unless answers are shown.
type questionView struct {
	ID            int64    `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	Points        int      `json:"points"`
}

type QuestionsResponse struct {
	Questions   []questionView `json:"questions"`
	ShowAnswers bool           `json:"showAnswers"`
}

type SettingsResponse struct {
	TimeLimit        int  `json:"timeLimit"`
	TimeLimitSeconds int  `json:"timeLimitSeconds"`
	ShowAnswers      bool `json:"showAnswers"`
}

type answerRequest struct {
	QuestionID     int64 `json:"questionId"`
	SelectedAnswer *int  `json:"selectedAnswer" binding:"required"`
}

type SubmitRequest struct {
	CandidateID   string          `json:"candidateId" binding:"required"`
	CandidateName string          `json:"candidateName"`
	Email         string          `json:"email"`
	Whatsapp      string          `json:"whatsapp"`
	Answers       []answerRequest `json:"answers" binding:"required,dive"`
	TimeTaken     int             `json:"timeTaken" binding:"min=0"`
}

type SubmitResponse struct {
	Success bool `json:"success"`
	domain.SubmitResult
}

// Questions serves every question in id order.
func (h *QuizHandler) Questions(c *gin.Context) {
	set, err := h.service.Questions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]questionView, 0, len(set.Questions))
	for _, q := range set.Questions {
		view := questionView{ID: q.ID, Text: q.Text, Options: q.Options, Points: q.Points}
		if set.ShowAnswers {
			correct := q.CorrectAnswer
			view.CorrectAnswer = &correct
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, QuestionsResponse{Questions: views, ShowAnswers: set.ShowAnswers})
}

// Question serves one question including its correct answer.
func (h *QuizHandler) Question(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.ErrQuestionNotFound)
		return
	}
	q, err := h.service.Question(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuizHandler) Settings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SettingsResponse{
		TimeLimit:        settings.TimeLimit,
		TimeLimitSeconds: settings.TimeLimitSeconds(),
		ShowAnswers:      settings.ShowAnswers,
	})
}

func (h *QuizHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	answers := make([]domain.AnswerSubmission, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.AnswerSubmission{QuestionID: a.QuestionID, SelectedAnswer: *a.SelectedAnswer})
	}
	result, err := h.service.Submit(c.Request.Context(), domain.Submission{
		CandidateID:   req.CandidateID,
		CandidateName: req.CandidateName,
		Email:         req.Email,
		Whatsapp:      req.Whatsapp,
		Answers:       answers,
		TimeTaken:     req.TimeTaken,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{Success: true, SubmitResult: result})
}
