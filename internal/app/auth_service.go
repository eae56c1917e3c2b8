package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Registration is the sign-up payload.
type Registration struct {
	Name     string
	Email    string
	Whatsapp string
	Password string
}

// Credentials identify an account by email or whatsapp.
type Credentials struct {
	Email    string
	Whatsapp string
	Password string
}

// Session is returned by a successful login.
type Session struct {
	Candidate domain.Candidate
	Token     string
}

// AuthService registers candidates and issues bearer tokens.
type AuthService struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo Repository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL, now: time.Now}
}

// Register creates a non-admin candidate with unlimited attempts and returns its id.
func (s *AuthService) Register(ctx context.Context, reg Registration) (string, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Whatsapp = strings.TrimSpace(reg.Whatsapp)
	if reg.Name == "" || reg.Email == "" || reg.Whatsapp == "" || reg.Password == "" {
		return "", domain.Invalid("all fields are required")
	}

	candidate, err := s.newCandidate(reg, false)
	if err != nil {
		return "", err
	}
	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		if err := ensureUnique(ctx, tx, reg.Email, reg.Whatsapp); err != nil {
			return err
		}
		return tx.CreateCandidate(ctx, candidate)
	})
	if err != nil {
		return "", err
	}
	return candidate.ID, nil
}

// Login checks the password of the account found by email, or by whatsapp when no email is given.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Password == "" {
		return Session{}, domain.Invalid("password is required")
	}
	var (
		candidate domain.Candidate
		err       error
	)
	switch {
	case creds.Email != "":
		candidate, err = s.repo.FindCandidateByEmail(ctx, creds.Email)
	case creds.Whatsapp != "":
		candidate, err = s.repo.FindCandidateByWhatsapp(ctx, creds.Whatsapp)
	default:
		return Session{}, domain.Invalid("email or whatsapp is required")
	}
	if errors.Is(err, domain.ErrCandidateNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(creds.Password)); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	token, err := s.GenerateToken(candidate.ID, candidate.IsAdmin)
	if err != nil {
		return Session{}, err
	}
	return Session{Candidate: candidate, Token: token}, nil
}

// GenerateToken signs an HS256 token carrying the candidate id and admin flag.
func (s *AuthService) GenerateToken(candidateID string, isAdmin bool) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"candidate_id": candidateID,
		"is_admin":     isAdmin,
		"exp":          now.Add(s.tokenTTL).Unix(),
		"iat":          now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken returns the candidate id of a valid token.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	candidateID, ok := claims["candidate_id"].(string)
	if !ok || candidateID == "" {
		return "", domain.ErrUnauthorized
	}
	return candidateID, nil
}

// RequireAdmin resolves the token and confirms against the store that the holder is still an admin.
func (s *AuthService) RequireAdmin(ctx context.Context, tokenString string) (domain.Candidate, error) {
	candidateID, err := s.ValidateToken(tokenString)
	if err != nil {
		return domain.Candidate{}, err
	}
	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if errors.Is(err, domain.ErrCandidateNotFound) {
		return domain.Candidate{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.Candidate{}, err
	}
	if !candidate.IsAdmin {
		return domain.Candidate{}, domain.ErrForbidden
	}
	return candidate, nil
}

// EnsureAdmin creates the default admin account when the store has no admin yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, reg Registration) (bool, error) {
	if reg.Email == "" || reg.Password == "" {
		return false, nil
	}
	admins, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	if admins > 0 {
		return false, nil
	}
	if reg.Name == "" {
		reg.Name = "Administrator"
	}
	candidate, err := s.newCandidate(reg, true)
	if err != nil {
		return false, err
	}
	if err := s.repo.CreateCandidate(ctx, candidate); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}
	return true, nil
}

func (s *AuthService) newCandidate(reg Registration, isAdmin bool) (domain.Candidate, error) {
	hash, err := hashPassword(reg.Password)
	if err != nil {
		return domain.Candidate{}, err
	}
	return domain.Candidate{
		ID:           uuid.NewString(),
		Name:         reg.Name,
		Email:        reg.Email,
		Whatsapp:     reg.Whatsapp,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
		IsAdmin:      isAdmin,
		MaxAttempts:  domain.UnlimitedAttempts,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ensureUnique(ctx context.Context, repo Repository, email, whatsapp string) error {
	if email != "" {
		_, err := repo.FindCandidateByEmail(ctx, email)
		if err == nil {
			return domain.ErrEmailTaken
		}
		if !errors.Is(err, domain.ErrCandidateNotFound) {
			return err
		}
	}
	if whatsapp != "" {
		_, err := repo.FindCandidateByWhatsapp(ctx, whatsapp)
		if err == nil {
			return domain.ErrWhatsappTaken
		}
		if !errors.Is(err, domain.ErrCandidateNotFound) {
			return err
		}
	}
	return nil
}
