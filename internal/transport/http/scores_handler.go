package http

import (
	"net/http"
	"strconv"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type ScoresHandler struct {
	leaderboard *app.LeaderboardService
}

func NewScoresHandler(leaderboard *app.LeaderboardService) *ScoresHandler {
	return &ScoresHandler{leaderboard: leaderboard}
}

// All returns the leaderboard; ?excludeAdmins=true drops admin accounts.
func (h *ScoresHandler) All(c *gin.Context) {
	rows, err := h.leaderboard.Standings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if exclude, _ := strconv.ParseBool(c.Query("excludeAdmins")); exclude {
		rows = app.ExcludeAdmins(rows)
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ScoresHandler) ByCandidate(c *gin.Context) {
	row, err := h.leaderboard.Score(c.Request.Context(), c.Param("candidateId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

type CandidateHandler struct {
	service *app.QuizService
}

func NewCandidateHandler(service *app.QuizService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

type CandidateInfoResponse struct {
	domain.Candidate
	Percentage int `json:"percentage"`
}

func (h *CandidateHandler) CanAttempt(c *gin.Context) {
	status, err := h.service.CanAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *CandidateHandler) Info(c *gin.Context) {
	candidate, err := h.service.CandidateInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CandidateInfoResponse{
		Candidate:  candidate,
		Percentage: domain.Percentage(candidate.Score, candidate.TotalQuestions),
	})
}
