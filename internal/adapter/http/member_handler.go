package http

import (
	"net/http"

	"sacco-backend/internal/usecase/dashboard"
	"sacco-backend/internal/usecase/member"

	"github.com/labstack/echo/v4"
)

type MemberHandler struct {
	members   *member.Usecase
	dashboard *dashboard.Usecase
}

func NewMemberHandler(m *member.Usecase, d *dashboard.Usecase) *MemberHandler {
	return &MemberHandler{members: m, dashboard: d}
}

// EnsureProfile is called by clients right after sign-in.
func (h *MemberHandler) EnsureProfile(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	u, err := h.members.EnsureProfile(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *MemberHandler) Me(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	u, err := h.members.Me(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *MemberHandler) Summary(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	sum, err := h.dashboard.MemberSummary(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *MemberHandler) ListMembers(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.members.List(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) GrantAdmin(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	u, err := h.members.GrantAdmin(c.Request().Context(), s, c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *MemberHandler) RevokeAdmin(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	u, err := h.members.RevokeAdmin(c.Request().Context(), s, c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *MemberHandler) AdminStats(c echo.Context) error {
	s, ok := sessionOf(c)
	if !ok {
		return unauthorized(c)
	}
	st, err := h.dashboard.AdminStats(c.Request().Context(), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
