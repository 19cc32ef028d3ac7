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

// ActivityHandler manages activity endpoints for verified callers.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// LogActivity POST /activity.
func (h *ActivityHandler) LogActivity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	date, err := req.ParsedDate()
	if err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"date": "must match 2006-01-02"})
	}

	activity, err := h.service.LogActivity(c.UserContext(), principal, service.ActivityInput{
		Date:           date,
		Steps:          req.Steps,
		CaloriesBurned: req.CaloriesBurned,
		DistanceKm:     req.DistanceKm,
		ActiveMinutes:  req.ActiveMinutes,
		WorkoutType:    req.WorkoutType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewActivityResponse(activity))
}

// GetActivity GET /activity/:id.
func (h *ActivityHandler) GetActivity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := activityID(c)
	if err != nil {
		return err
	}
	activity, err := h.service.GetActivity(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewActivityResponse(activity))
}

// Summary GET /activity/summary.
func (h *ActivityHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summary, err := h.service.Summary(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewActivitySummaryResponse(summary))
}

// AdminGetActivity GET /api/v1/admin/activity/:id.
func (h *ActivityHandler) AdminGetActivity(c *fiber.Ctx) error {
	id, err := activityID(c)
	if err != nil {
		return err
	}
	activity, err := h.service.AdminGetActivity(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewActivityResponse(activity))
}

// AdminListActivities GET /api/v1/admin/activity/all.
func (h *ActivityHandler) AdminListActivities(c *fiber.Ctx) error {
	activities, err := h.service.AdminListActivities(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		items = append(items, dto.NewActivityResponse(&activities[i]))
	}
	return c.JSON(items)
}

func activityID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid activity id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
