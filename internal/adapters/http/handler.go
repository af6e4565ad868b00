package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/app"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

const maxQuestionRunes = 500

type Handler struct {
	svc    *app.TarotService
	logger *slog.Logger
}

func NewHandler(svc *app.TarotService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.GET("/deck", h.Deck)
	v1.GET("/areas", h.Areas)
	v1.GET("/tarot", h.ReadTarot)

	s := v1.Group("/sessions")
	s.POST("", h.CreateSession)
	s.GET("/:id", h.GetSession)
	s.DELETE("/:id", h.EndSession)
	s.POST("/:id/intake", h.SubmitIntake)
	s.POST("/:id/draw", h.Draw)
	s.POST("/:id/again", h.AskAgain)
	s.POST("/:id/reset", h.Reset)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Deck(c echo.Context) error {
	deck, err := h.svc.Deck(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	cards := make([]CardResponse, 0, deck.Len())
	for _, card := range deck.Cards() {
		cards = append(cards, toCard(card))
	}
	return c.JSON(http.StatusOK, DeckResponse{ID: deck.ID(), Cards: cards})
}

func (h *Handler) Areas(c echo.Context) error {
	out := make([]AreaResponse, len(domain.Areas))
	for i, a := range domain.Areas {
		out[i] = toArea(a)
	}
	return c.JSON(http.StatusOK, out)
}

// ReadTarot is a stateless one-shot reading: GET /v1/tarot?q=...&area=...
func (h *Handler) ReadTarot(c echo.Context) error {
	q := c.QueryParam("q")
	if utf8.RuneCountInString(q) > maxQuestionRunes {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q must be at most 500 characters"})
	}

	start := time.Now()
	res, err := h.svc.ReadOnce(c.Request().Context(), q, domain.ParseTopicArea(c.QueryParam("area")))
	if err != nil {
		return h.mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusOK, TarotResponse{
		Reading: toReading(res),
		Meta: MetaResp{
			RequestID: requestID,
			LatencyMS: time.Since(start).Milliseconds(),
		},
	})
}

func (h *Handler) CreateSession(c echo.Context) error {
	st, err := h.svc.NewSession(c.Request().Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toSession(st))
}

func (h *Handler) GetSession(c echo.Context) error {
	st, err := h.svc.Session(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(st))
}

func (h *Handler) EndSession(c echo.Context) error {
	if err := h.svc.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SubmitIntake(c echo.Context) error {
	var req IntakeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if utf8.RuneCountInString(req.Question) > maxQuestionRunes {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question must be at most 500 characters"})
	}

	st, err := h.svc.SubmitIntake(c.Request().Context(), c.Param("id"), req.Question, domain.ParseTopicArea(req.Area))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(st))
}

func (h *Handler) Draw(c echo.Context) error {
	var req DrawRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	var area domain.TopicArea
	if req.Area != "" {
		area = domain.ParseTopicArea(req.Area)
	}
	st, err := h.svc.Draw(c.Request().Context(), c.Param("id"), area)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(st))
}

func (h *Handler) AskAgain(c echo.Context) error {
	st, err := h.svc.AskAgain(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(st))
}

func (h *Handler) Reset(c echo.Context) error {
	st, err := h.svc.Reset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSession(st))
}

func (h *Handler) mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "please enter your question first"})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrSessionNotFound.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
