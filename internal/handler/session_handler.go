package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"speakscore/internal/dto"
	"speakscore/internal/logger"
	"speakscore/internal/middleware"
	"speakscore/internal/service"
)

// SessionHandler starts practice sessions and serves their reports.
type SessionHandler struct {
	auth    service.AuthService
	reports service.ReportService
}

func NewSessionHandler(auth service.AuthService, reports service.ReportService) *SessionHandler {
	return &SessionHandler{auth: auth, reports: reports}
}

// StartSession godoc
// @Summary Start a practice session
// @Description Issues a bearer token bound to a new session id
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest false "Existing user id"
// @Success 200 {object} dto.SessionResponse
// @Router /session [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Get().Debug("Ignoring unreadable session request body", zap.Error(err))
		}
	}

	issued, err := h.auth.StartSession(req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(dto.SessionResponse{
		Success:   true,
		Token:     issued.Token,
		UserID:    issued.UserID,
		SessionID: issued.SessionID,
		ExpiresAt: issued.ExpiresAt.Format(time.RFC3339),
	})
}

// GetReport godoc
// @Summary Session performance report
// @Tags session
// @Produce json
// @Success 200 {object} dto.ReportResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /report [get]
func (h *SessionHandler) GetReport(c *fiber.Ctx) error {
	userID, sessionID := middleware.Identity(c)

	report, err := h.reports.Report(c.UserContext(), userID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(dto.ReportResponse{Success: true, SessionReport: report})
}

// Pinger is implemented by every dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the ledger and the quiz store are reachable.
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	resp := dto.HealthResponse{Success: true, Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, pinger := range h.checks {
		if err := pinger.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Success = false
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "up"
	}

	if !resp.Success {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
