package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/session"
	"github.com/labstack/echo/v4"
)

// SessionResponse is a stored session with its report.
type SessionResponse struct {
	Session *session.Session  `json:"session"`
	Report  calculator.Report `json:"report"`
}

type sessionAPI struct {
	store SessionStore
}

func registerSessionAPI(g *echo.Group, store SessionStore) {
	api := sessionAPI{store: store}

	sg := g.Group("/sessions")
	sg.GET("", api.list)
	sg.POST("", api.create)
	sg.GET("/:ref", api.retrieve)
	sg.DELETE("/:ref", api.destroy)
}

func (api *sessionAPI) list(ctx echo.Context) error {
	infos, err := api.store.ListSessions(ctx.Request().Context())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	return ctx.JSON(http.StatusOK, infos)
}

func (api *sessionAPI) create(ctx echo.Context) error {
	var data SaveSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := ctx.Validate(&data); err != nil {
		return err
	}
	kind, err := calculator.ParseKind(data.Kind)
	if err != nil {
		return err
	}
	preset, err := calculator.PresetFor(kind)
	if err != nil {
		return err
	}

	s := buildSession(preset, data.Groups, data.Prior, session.WithName(strings.TrimSpace(data.Name)))
	if err := api.store.SaveSession(ctx.Request().Context(), s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return api.respond(ctx, http.StatusCreated, s)
}

func (api *sessionAPI) retrieve(ctx echo.Context) error {
	s, err := api.store.FindSession(ctx.Request().Context(), ctx.Param("ref"))
	if err != nil {
		return err
	}
	return api.respond(ctx, http.StatusOK, s)
}

func (api *sessionAPI) destroy(ctx echo.Context) error {
	c := ctx.Request().Context()
	s, err := api.store.FindSession(c, ctx.Param("ref"))
	if err != nil {
		return err
	}
	if err := api.store.DeleteSession(c, s.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionAPI) respond(ctx echo.Context, code int, s *session.Session) error {
	kind, err := calculator.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	report, err := calculator.Evaluate(kind, s, calculator.Params{})
	if err != nil {
		return fmt.Errorf("evaluating session %s: %w", s.ID, err)
	}
	return ctx.JSON(code, SessionResponse{Session: s, Report: report})
}
