package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	api.GET("/audit-logs", h.list, guards.Admin...)
}

// GET /api/audit-logs?actorUserId&action&resourceType&resourceId&from&to&limit&offset
func (h *AuditLogHandler) list(c echo.Context) error {
	in := usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resourceType"),
	}

	var err error
	if in.ActorUserID, err = optionalInt64Query(c, "actorUserId"); err != nil {
		return err
	}
	if in.ResourceID, err = optionalInt64Query(c, "resourceId"); err != nil {
		return err
	}
	if in.From, err = optionalTimeQuery(c, "from"); err != nil {
		return err
	}
	if in.To, err = optionalTimeQuery(c, "to"); err != nil {
		return err
	}
	if v := c.QueryParam("limit"); v != "" {
		if in.Limit, err = strconv.Atoi(v); err != nil {
			return usecase.NewValidation(map[string]string{"limit": "must be an integer"})
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if in.Offset, err = strconv.Atoi(v); err != nil {
			return usecase.NewValidation(map[string]string{"offset": "must be an integer"})
		}
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// RFC3339
func optionalTimeQuery(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, usecase.NewValidation(map[string]string{name: "must be RFC3339"})
	}
	return &t, nil
}
