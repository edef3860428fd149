package tickets

import (
	"context"
	"errors"
	"time"

	"refraction/core/lighthouse"
	"refraction/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for ticket imports.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A non-positive timeout leaves imports unbounded.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// ImportRequest is the body of POST /tickets/import.
type ImportRequest struct {
	Query  string `json:"query"`
	DryRun bool   `json:"dry_run"`
}

// RegisterRoutes registers the ticket routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tickets")
	group.Post("/import", h.HandleImport)
	group.Get("/fields", h.HandleFields)
}

// HandleImport runs one import.
// @Summary Import Tickets
// @Description Fetch tickets matching a Lighthouse query and reconcile them into the configured grid.
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Import request"
// @Success 200 {object} Report "Run report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Unreadable Lighthouse response"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 502 {object} map[string]string "Lighthouse unreachable"
// @Router /tickets/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	report, err := h.service.Import(ctx, req.Query, req.DryRun)
	if err != nil {
		l.Error("Ticket import failed", zap.String("query", req.Query), zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["report"] = report
		}
		return c.Status(statusFor(err)).JSON(body)
	}

	return c.JSON(report)
}

// HandleFields lists the fields discovered for a query.
// @Summary List Ticket Fields
// @Description Fetch and parse tickets for a query and return the discovered field names. No grid is touched.
// @Tags tickets
// @Produce json
// @Param q query string false "Lighthouse search query"
// @Success 200 {object} FieldsReport "Discovered fields"
// @Failure 422 {object} map[string]string "Unreadable Lighthouse response"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 502 {object} map[string]string "Lighthouse unreachable"
// @Router /tickets/fields [get]
func (h *Handler) HandleFields(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	query := c.Query("q")

	ctx, cancel := h.context(c)
	defer cancel()

	report, err := h.service.Fields(ctx, query)
	if err != nil {
		l.Error("Field discovery failed", zap.String("query", query), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lighthouse.ErrTransport):
		return fiber.StatusBadGateway
	case errors.Is(err, lighthouse.ErrParse):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
