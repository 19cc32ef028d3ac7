package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-services/internal/api/dto"
	"github.com/spec-kit/wellness-services/internal/auth"
	"github.com/spec-kit/wellness-services/internal/service"
	apperrors "github.com/spec-kit/wellness-services/pkg/util/errorutil"
)

// UsersHandler exposes the identity provider endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /register and POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.RegisterUser(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Weight:   req.Weight,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	issued, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{AccessToken: issued.AccessToken, TokenType: issued.TokenType})
}

// ValidateToken handles GET /validate_token. The bearer middleware has
// already verified the token; this returns its claims.
func (h *UsersHandler) ValidateToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.ErrInvalidToken.Error())
	}
	return c.JSON(dto.TokenClaimsResponse{Subject: principal.Subject, Role: principal.Role})
}

// GetUser handles GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid user id", map[string]any{"id": c.Params("id")})
	}

	user, err := h.auth.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
