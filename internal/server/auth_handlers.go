package server

import (
	"strconv"
	"strings"
	"time"

	"gloryharbor/internal/middleware"
	"gloryharbor/internal/models"
	"gloryharbor/internal/observability"
	"gloryharbor/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 7 * 24 * time.Hour

// RegisterRequest is the registration payload. SignupCode is required for the
// leader and pastor roles and ignored for members.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	SignupCode string `json:"signup_code"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse pairs a signed token with the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account. Elevated roles are gated behind
// registration codes; everyone else joins as a member.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return respondError(c, err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return respondError(c, err)
	}
	firstName := strings.TrimSpace(req.FirstName)
	if err := validation.ValidateName("First name", firstName); err != nil {
		return respondError(c, err)
	}
	lastName := strings.TrimSpace(req.LastName)
	if err := validation.ValidateName("Last name", lastName); err != nil {
		return respondError(c, err)
	}

	role, err := s.resolveSignupRole(req.Role, req.SignupCode)
	if err != nil {
		observability.AuthAttempts.WithLabelValues("register", "rejected").Inc()
		return respondError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Status:    models.UserStatusActive,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		observability.AuthAttempts.WithLabelValues("register", "failed").Inc()
		return respondError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	observability.AuthAttempts.WithLabelValues("register", "success").Inc()
	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"user_id", user.ID, "role", user.Role)

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// resolveSignupRole maps a requested role plus registration code to the role
// the account is created with. Missing code for an elevated role is a 400;
// a code that does not match is a 403.
func (s *Server) resolveSignupRole(requested, code string) (models.Role, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(requested)))
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return "", models.NewValidationError("role must be member, leader or pastor")
	}
	if role == models.RoleMember {
		return role, nil
	}

	if strings.TrimSpace(code) == "" {
		return "", models.NewValidationError("A signup code is required for the " + string(role) + " role")
	}

	var hash []byte
	switch role {
	case models.RoleLeader:
		hash = s.leaderCodeHash
	case models.RolePastor:
		hash = s.pastorCodeHash
	}
	if len(hash) == 0 || bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return "", models.NewForbiddenError("Invalid signup code")
	}
	return role, nil
}

// Login authenticates a user and returns a signed token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		observability.AuthAttempts.WithLabelValues("login", "failed").Inc()
		// Same response for unknown email and wrong password.
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	if user.Status != models.UserStatusActive {
		observability.AuthAttempts.WithLabelValues("login", "inactive").Inc()
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("This account has been deactivated"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	observability.AuthAttempts.WithLabelValues("login", "success").Inc()
	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)

	return c.JSON(AuthResponse{Token: token, User: user})
}

// GetCurrentUser returns the authenticated user's profile.
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Logout acknowledges a logout. Tokens are stateless; clients discard them.
func (s *Server) Logout(c *fiber.Ctx) error {
	middleware.Logger.InfoContext(c.UserContext(), "user logged out", "user_id", currentUserID(c))
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// generateToken signs a 7-day HS256 token for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iss":  "gloryharbor-api",
		"aud":  "gloryharbor-client",
		"exp":  now.Add(tokenLifetime).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
