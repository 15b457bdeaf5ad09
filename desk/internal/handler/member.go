package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/view"
)

// memberManager returns the per-username loan manager, creating it on
// first use. Each member shares the desk-wide toast.
func (h *Handler) memberManager(c echo.Context) (*view.MemberManager, error) {
	sess, err := sessionFromEcho(c)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[sess.Username]
	if !ok {
		m = view.NewMemberManager(h.client, h.toast, h.log)
		h.members[sess.Username] = m
	}
	return m, nil
}

func (h *Handler) GetMemberBorrows(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.Refresh(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) ToggleMemberBorrows(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	m.ToggleShowAll()
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) ReturnBorrow(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.Return(c.Request().Context(), c.Param("borrowId")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) CancelBorrow(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.Cancel(c.Request().Context(), c.Param("borrowId")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) OpenExtend(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.OpenExtend(c.Param("borrowId")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

type extendDateRequest struct {
	NewDueDate model.Date `json:"newDueDate" validate:"required"`
}

func (h *Handler) SetExtendDate(c echo.Context) error {
	var req extendDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.SetExtendDate(req.NewDueDate); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) SubmitExtend(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	if err := m.SubmitExtend(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) CloseExtend(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	m.CloseExtend()
	return c.JSON(http.StatusOK, m.State())
}

func (h *Handler) DismissMemberAlert(c echo.Context) error {
	m, err := h.memberManager(c)
	if err != nil {
		return err
	}
	m.DismissAlert()
	return c.JSON(http.StatusOK, m.State())
}

// requestFlow returns the member's open borrow request form, if any.
func (h *Handler) requestFlow(c echo.Context) (*view.RequestFlow, error) {
	sess, err := sessionFromEcho(c)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.requests[sess.Username]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no borrow request in progress")
	}
	return f, nil
}

type openRequestBody struct {
	BookID int `json:"bookId" validate:"required"`
}

// OpenRequest starts a fresh borrow request form for one book. Opening
// again replaces any previous unsubmitted form.
func (h *Handler) OpenRequest(c echo.Context) error {
	var req openRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	sess, err := sessionFromEcho(c)
	if err != nil {
		return err
	}

	f := view.NewRequestFlow(h.client, h.settings, req.BookID, h.log)
	h.mu.Lock()
	h.requests[sess.Username] = f
	h.mu.Unlock()

	return c.JSON(http.StatusOK, f.State(c.Request().Context()))
}

func (h *Handler) GetRequest(c echo.Context) error {
	f, err := h.requestFlow(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f.State(c.Request().Context()))
}

type requestDateBody struct {
	ReturnDate model.Date `json:"returnDate" validate:"required"`
}

func (h *Handler) SetRequestDate(c echo.Context) error {
	var req requestDateBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	f, err := h.requestFlow(c)
	if err != nil {
		return err
	}
	f.SetReturnDate(req.ReturnDate)
	return c.JSON(http.StatusOK, f.State(c.Request().Context()))
}

func (h *Handler) SubmitRequest(c echo.Context) error {
	f, err := h.requestFlow(c)
	if err != nil {
		return err
	}

	rec, err := f.Submit(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	sess, err := sessionFromEcho(c)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.requests, sess.Username)
	h.mu.Unlock()

	st := f.State(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{
		"record":   rec,
		"redirect": st.Redirect,
	})
}
