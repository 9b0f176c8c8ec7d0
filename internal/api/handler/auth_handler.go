package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/onboarding-system/internal/api/metrics"
	"github.com/99minutos/onboarding-system/internal/core/domain"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new employee account.
//
// @Summary      Register a new employee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Position:   req.Position,
		Department: req.Department,
	})
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrUserExists) {
			result = metrics.ResultConflict
		}
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// Login authenticates an employee and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return domain.ErrInvalidCredentials
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = metrics.ResultInvalid
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User: loginUser{
			PublicUser:      user.Public(),
			OnboardingTasks: tasksOrEmpty(user.OnboardingTasks),
		},
	})
}

func tasksOrEmpty(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}
