package api

import (
	"errors"

	"avesto/internal/domain/models"
	"avesto/internal/domain/service"
	"avesto/internal/usecase"
	xhttp "avesto/pkg/http"
	xlogger "avesto/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EngineHandler exposes the engine over HTTP.
type EngineHandler struct {
	logger *xlogger.Logger
	engine *usecase.Engine
}

func NewEngineHandler(logger *xlogger.Logger, engine *usecase.Engine) *EngineHandler {
	return &EngineHandler{logger: logger, engine: engine}
}

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/opportunities", h.Opportunities)
	g.POST("/decision", h.Decision)
	g.POST("/chat", h.Chat)
	g.GET("/health", h.Health)
}

func (h *EngineHandler) Opportunities(c echo.Context) error {
	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.Hunt(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("hunt failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) Decision(c echo.Context) error {
	req := &models.DecisionScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.ScoreDecision(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("decision scoring failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.Answer(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("chat failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) Health(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "user_id",
			Message: "user_id is required",
		}})
	}

	snap, err := h.engine.Health(c.Request().Context(), userID, nil)
	if err != nil {
		h.logger.Error("health snapshot failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, engineError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

// engineError maps the engine error taxonomy onto HTTP statuses.
func engineError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyProfile):
		return xhttp.BadRequestError("profile is empty or missing").WithError(err)
	case errors.Is(err, service.ErrInvalidDecision):
		return xhttp.BadRequestError("proposed decision is invalid").WithError(err)
	case errors.Is(err, service.ErrProfileNotFound):
		return xhttp.NotFoundError("profile not found").WithError(err)
	case errors.Is(err, service.ErrModelTimeout),
		errors.Is(err, service.ErrModelUnavailable):
		return xhttp.UnavailableError("model backend unavailable").WithError(err)
	case errors.Is(err, service.ErrInvalidModelResponse):
		return xhttp.InternalError("model returned an unusable response").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
