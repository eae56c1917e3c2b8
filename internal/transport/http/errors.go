package http

import (
	"errors"
	"log"
	"net/http"

	"quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var limitErr *domain.AttemptLimitError
	switch {
	case errors.As(err, &limitErr):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidSubmission),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrWhatsappTaken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

// bindError reports a malformed request body the same way as a domain validation failure.
func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidSubmission.Error() + ": " + err.Error()})
}
