package circulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/config"
	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/pkg/auth"
	"github.com/libradesk/circulation-desk/pkg/circuitbreaker"
)

const (
	XRequestID = "X-Request-ID"

	cbWindow    = 20
	cbCooldown  = 10 * time.Second
	cbThreshold = 0.5
	cbProbes    = 3
)

// Service is the HTTP client for the remote circulation API. It owns
// payload normalization: whatever shape an endpoint answers with leaves
// here as model.BorrowRecord.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cb     circuitbreaker.CircuitBreaker
	cfg    config.CirculationHTTPServer
}

func NewService(log *zap.Logger, cfg config.Config) *Service {
	return &Service{
		log:    log.Named("circulation"),
		client: &http.Client{Timeout: time.Minute},
		cb:     circuitbreaker.New(cbWindow, cbCooldown, cbThreshold, cbProbes),
		cfg:    cfg.CirculationHTTPServer,
	}
}

func (s *Service) CreateBorrow(ctx context.Context, sess auth.Session, req model.CreateBorrowRequest) (model.BorrowRecord, int, error) {
	var rec model.BorrowRecord
	code, err := s.call(ctx, sess, http.MethodPost, "/api/Borrows/borrow", req, &rec)
	if err != nil {
		return model.BorrowRecord{}, code, err
	}
	if err := rec.Validate(); err != nil {
		return model.BorrowRecord{}, http.StatusBadGateway, err
	}
	return rec, code, nil
}

func (s *Service) ListPendingBorrows(ctx context.Context, sess auth.Session, page, pageSize int) (model.BorrowPage, int, error) {
	return s.listPage(ctx, sess, "/api/admin/borrows/pending", page, pageSize)
}

func (s *Service) ListActiveBorrows(ctx context.Context, sess auth.Session, page, pageSize int) (model.BorrowPage, int, error) {
	return s.listPage(ctx, sess, "/api/admin/borrows/Borrowed", page, pageSize)
}

func (s *Service) ListMemberBorrows(ctx context.Context, sess auth.Session) ([]model.BorrowRecord, int, error) {
	var items []model.BorrowRecord
	code, err := s.call(ctx, sess, http.MethodGet, "/api/Borrows/my-borrows", nil, &items)
	if err != nil {
		return nil, code, err
	}
	return s.keepValid(items), code, nil
}

func (s *Service) ApproveBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error) {
	return s.call(ctx, sess, http.MethodPost, "/api/admin/borrows/approve/"+url.PathEscape(borrowID), struct{}{}, nil)
}

func (s *Service) RejectBorrow(ctx context.Context, sess auth.Session, borrowID, reason string) (int, error) {
	if reason == "" {
		reason = model.DefaultRejectReason
	}
	body := model.RejectBorrowRequest{Reason: reason}
	return s.call(ctx, sess, http.MethodPost, "/api/admin/borrows/reject/"+url.PathEscape(borrowID), body, nil)
}

func (s *Service) ExtendBorrow(ctx context.Context, sess auth.Session, req model.ExtendBorrowRequest) (int, error) {
	return s.call(ctx, sess, http.MethodPost, "/api/Borrows/extend", req, nil)
}

func (s *Service) ReturnBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error) {
	return s.call(ctx, sess, http.MethodPost, "/api/Borrows/return/"+url.PathEscape(borrowID), struct{}{}, nil)
}

func (s *Service) CancelBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error) {
	return s.call(ctx, sess, http.MethodPost, "/api/Borrows/cancel/"+url.PathEscape(borrowID), struct{}{}, nil)
}

func (s *Service) GetSettings(ctx context.Context, sess auth.Session) (model.CirculationSettings, int, error) {
	var out model.CirculationSettings
	code, err := s.call(ctx, sess, http.MethodGet, "/api/systemsettings", nil, &out)
	return out, code, err
}

func (s *Service) PutSettings(ctx context.Context, sess auth.Session, in model.CirculationSettings) (model.CirculationSettings, int, error) {
	var out model.CirculationSettings
	code, err := s.call(ctx, sess, http.MethodPut, "/api/systemsettings", in, &out)
	return out, code, err
}

// borrowPageWire tolerates the per-endpoint wrapper names of the admin
// list responses.
type borrowPageWire struct {
	Items           []model.BorrowRecord `json:"items"`
	PendingBorrows  []model.BorrowRecord `json:"pendingBorrows"`
	BorrowedBorrows []model.BorrowRecord `json:"borrowedBorrows"`
	TotalPages      int                  `json:"totalPages"`
}

func (s *Service) listPage(ctx context.Context, sess auth.Session, path string, page, pageSize int) (model.BorrowPage, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var wire borrowPageWire
	code, err := s.call(ctx, sess, http.MethodGet, path+"?"+q.Encode(), nil, &wire)
	if err != nil {
		return model.BorrowPage{}, code, err
	}

	items := wire.Items
	if items == nil {
		items = wire.PendingBorrows
	}
	if items == nil {
		items = wire.BorrowedBorrows
	}
	totalPages := wire.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return model.BorrowPage{Items: s.keepValid(items), TotalPages: totalPages}, code, nil
}

// keepValid drops records that fail boundary validation instead of
// failing the whole page.
func (s *Service) keepValid(items []model.BorrowRecord) []model.BorrowRecord {
	kept := make([]model.BorrowRecord, 0, len(items))
	for _, rec := range items {
		if err := rec.Validate(); err != nil {
			s.log.Warn("dropping malformed borrow record", zap.Error(err))
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// call performs one request through the circuit breaker and decodes the
// response into out (when non-nil). Non-2xx answers become *errs.APIError
// carrying the service's message; transport failures surface as
// errs.ErrUnavailable.
func (s *Service) call(ctx context.Context, sess auth.Session, method, path string, in, out any) (int, error) {
	var body *bytes.Buffer
	if in != nil {
		body = bytes.NewBuffer(nil)
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return http.StatusBadRequest, err
		}
	}

	u := fmt.Sprintf("http://%s%s", net.JoinHostPort(s.cfg.Host, s.cfg.Port), path)
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, http.NoBody)
	}
	if err != nil {
		return http.StatusBadRequest, err
	}
	req.Header.Set("Content-Type", echo.MIMEApplicationJSONCharsetUTF8)
	req.Header.Set(XRequestID, uuid.NewString())
	req.Header.Set(auth.XUserNameHeader, sess.Username)
	req.Header.Set(auth.XUserRoleHeader, sess.Role)

	code := 0
	if cbErr := s.cb.Call(func() error {
		resp, doErr := s.client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		code = resp.StatusCode
		if code >= http.StatusMultipleChoices {
			apiErr := &errs.APIError{Code: code}
			_ = json.NewDecoder(resp.Body).Decode(apiErr) //nolint:errcheck
			return apiErr
		}
		if out != nil {
			if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
				return decErr
			}
		}
		return nil
	}); cbErr != nil {
		var apiErr *errs.APIError
		if errors.As(cbErr, &apiErr) {
			return code, cbErr
		}
		s.log.Warn("circulation call failed", zap.String("path", path), zap.Error(cbErr))
		return http.StatusServiceUnavailable, fmt.Errorf("%w: %v", errs.ErrUnavailable, cbErr)
	}
	return code, nil
}
