package http

import (
	"net/http"
	"strings"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Whatsapp string `json:"whatsapp" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	Success     bool   `json:"success"`
	CandidateID string `json:"candidateId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success   bool             `json:"success"`
	Token     string           `json:"token"`
	Candidate domain.Candidate `json:"candidate"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	id, err := h.auth.Register(c.Request.Context(), app.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{Success: true, CandidateID: id})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	session, err := h.auth.Login(c.Request.Context(), app.Credentials{
		Email:    strings.TrimSpace(req.Email),
		Whatsapp: strings.TrimSpace(req.Whatsapp),
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: session.Token, Candidate: session.Candidate})
}

const adminKey = "admin"

// AdminAuth accepts only bearer tokens whose holder is an admin in the store right now.
func AdminAuth(auth *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header format"})
			return
		}

		admin, err := auth.RequireAdmin(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(adminKey, admin)
		c.Next()
	}
}
