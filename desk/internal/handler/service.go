package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/service/settings"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ SettingsService = (*settings.Service)(nil)

type SettingsService interface {
	Get(ctx context.Context, sess auth.Session) (model.CirculationSettings, error)
	Update(ctx context.Context, sess auth.Session, next model.CirculationSettings) (model.CirculationSettings, error)
}

func sessionFromEcho(c echo.Context) (auth.Session, error) {
	sess, ok := auth.SessionFromContext(c.Request().Context())
	if !ok || sess.Username == "" {
		return auth.Session{}, echo.NewHTTPError(http.StatusUnauthorized, errs.ErrUserName.Error())
	}
	return sess, nil
}

// httpError maps the error taxonomy onto transport codes. Remote answers
// keep the code the circulation service chose.
func httpError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.Code, apiErr.Error())
	}
	switch {
	case errors.Is(err, errs.ErrUserName):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
