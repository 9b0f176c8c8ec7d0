package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/onboarding-system/internal/api/metrics"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

// ProfileHandler serves the authenticated /api/profile routes.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/profile.
//
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /api/profile. Omitted fields are left unchanged.
//
// @Summary      Update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  updateProfileResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), userID, ports.ProfileFields{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Position:   req.Position,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateProfileResponse{
		Message: "Profile updated successfully",
		User:    user,
	})
}

// ListTasks handles GET /api/profile/tasks.
//
// @Summary      List the caller's onboarding tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Task
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/profile/tasks [get]
func (h *ProfileHandler) ListTasks(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListTasks(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasksOrEmpty(tasks))
}

// UpdateTask handles PUT /api/profile/tasks/:taskId.
//
// @Summary      Update an onboarding task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string             true  "Task id"
// @Param        body    body      updateTaskRequest  true  "New status"
// @Success      200     {object}  updateTaskResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/profile/tasks/{taskId} [put]
func (h *ProfileHandler) UpdateTask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.service.UpdateTaskStatus(c.Request().Context(), userID, c.Param("taskId"), req.Status)
	if err != nil {
		return err
	}

	metrics.TaskStatusUpdatesTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, updateTaskResponse{
		Message: "Task updated successfully",
		Tasks:   tasks,
	})
}
