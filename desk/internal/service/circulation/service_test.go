package circulation_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/config"
	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/service/circulation"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

var testSession = auth.Session{Username: "admin-1", Role: auth.RoleAdmin}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newService(t *testing.T, h http.Handler) *circulation.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	cfg := config.Config{
		CirculationHTTPServer: config.CirculationHTTPServer{
			Host: u.Hostname(),
			Port: u.Port(),
		},
	}
	return circulation.NewService(zap.NewNop(), cfg)
}

func TestService_ListPendingBorrows(t *testing.T) {
	t.Parallel()

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/borrows/pending", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("pageSize"))
		require.Equal(t, "admin-1", r.Header.Get(auth.XUserNameHeader))
		require.Equal(t, auth.RoleAdmin, r.Header.Get(auth.XUserRoleHeader))
		require.NotEmpty(t, r.Header.Get(circulation.XRequestID))

		io.WriteString(w, `{
			"pendingBorrows": [
				{"id": 1, "title": "Book One", "status": "Pending"},
				{"title": "no identity, dropped", "status": "Pending"},
				{"id": 3, "title": "Book Three", "status": "pending"}
			],
			"totalPages": 4
		}`)
	}))

	page, code, err := svc.ListPendingBorrows(context.Background(), testSession, 2, 10)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Items, 2, "records without identity are dropped at the boundary")
	require.Equal(t, "1", page.Items[0].BorrowID)
	require.Equal(t, model.StatusPending, page.Items[1].Status)
}

func TestService_ListActiveBorrows(t *testing.T) {
	t.Parallel()

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/borrows/Borrowed", r.URL.Path)
		io.WriteString(w, `{"borrowedBorrows": [{"id": 5, "title": "Out", "status": "Borrowed"}]}`)
	}))

	page, _, err := svc.ListActiveBorrows(context.Background(), testSession, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalPages, "absent totalPages floors at one")
	require.Len(t, page.Items, 1)
	require.Equal(t, model.StatusBorrowed, page.Items[0].Status)
}

func TestService_RejectBorrow_DefaultReason(t *testing.T) {
	t.Parallel()

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/borrows/reject/b-1", r.URL.Path)
		var body model.RejectBorrowRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, model.DefaultRejectReason, body.Reason)
		w.WriteHeader(http.StatusOK)
	}))

	code, err := svc.RejectBorrow(context.Background(), testSession, "b-1", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
}

func TestService_CreateBorrow(t *testing.T) {
	t.Parallel()

	due := model.NewDate(day("2024-05-20")).EndOfDay()

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/Borrows/borrow", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(7), body["bookId"])
		require.Equal(t, "2024-05-20T23:59:59.999Z", body["dueDate"])

		io.WriteString(w, `{"borrowId": "b-9", "bookId": 7, "status": "Pending"}`)
	}))

	rec, code, err := svc.CreateBorrow(context.Background(), testSession, model.CreateBorrowRequest{
		BookID:  7,
		DueDate: due,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "b-9", rec.BorrowID)
	require.Equal(t, model.StatusPending, rec.Status)
}

func TestService_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `{"message": "borrow not found"}`,
			sentinel: errs.ErrNotFound,
			message:  "borrow not found",
		},
		{
			name:     "conflict is a validation failure",
			status:   http.StatusConflict,
			body:     `{"message": "book no longer available"}`,
			sentinel: errs.ErrValidation,
			message:  "book no longer available",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{}`,
			sentinel: errs.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			code, err := svc.ApproveBorrow(context.Background(), testSession, "b-1")
			require.Error(t, err)
			require.Equal(t, tt.status, code)
			require.ErrorIs(t, err, tt.sentinel)

			var apiErr *errs.APIError
			require.True(t, errors.As(err, &apiErr))
			if tt.message != "" {
				require.Equal(t, tt.message, apiErr.Message)
			}
		})
	}
}

func TestService_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	cfg := config.Config{
		CirculationHTTPServer: config.CirculationHTTPServer{Host: u.Hostname(), Port: u.Port()},
	}
	svc := circulation.NewService(zap.NewNop(), cfg)

	_, code, err := svc.ListMemberBorrows(context.Background(), testSession)
	require.Error(t, err)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.ErrorIs(t, err, errs.ErrUnavailable)
}

func TestService_GetSettings(t *testing.T) {
	t.Parallel()

	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/systemsettings", r.URL.Path)
		io.WriteString(w, `{"maxBorrowDuration": 21, "maxExtensionLimit": 2, "maxBorrowLimit": 3, "maxBookingDuration": 7, "maxBookingLimit": 3}`)
	}))

	cfg, code, err := svc.GetSettings(context.Background(), testSession)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 21, cfg.MaxBorrowDuration)
	require.Equal(t, 2, cfg.MaxExtensionLimit)
}
