package view

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/service/settings"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

const memberDashboardPath = "/UserDashboard"

var _ SettingsReader = (*settings.Service)(nil)

// SettingsReader supplies the staff-owned limits the request form
// displays. The flow never writes them.
type SettingsReader interface {
	Get(ctx context.Context, sess auth.Session) (model.CirculationSettings, error)
}

// RequestState is a snapshot of the borrow request form for rendering.
type RequestState struct {
	BookID       int        `json:"bookId"`
	ReturnDate   model.Date `json:"returnDate,omitempty"`
	DurationDays int        `json:"durationDays"`
	MaxDuration  int        `json:"maxDuration"`
	Submitting   bool       `json:"submitting"`
	Redirect     string     `json:"redirect,omitempty"`
	Alert        string     `json:"alert,omitempty"`
}

// RequestFlow is the member-side borrow request form for one book: pick
// a return date, see the whole-day duration hint, submit once. The
// chosen date is normalized to the end of that day before it leaves the
// process.
type RequestFlow struct {
	log      *zap.Logger
	client   CirculationClient
	settings SettingsReader

	mu         sync.Mutex
	bookID     int
	returnDate model.Date
	submitting bool
	redirect   string
	alert      string
	now        func() time.Time
}

func NewRequestFlow(client CirculationClient, settings SettingsReader, bookID int, log *zap.Logger) *RequestFlow {
	return &RequestFlow{
		log:      log,
		client:   client,
		settings: settings,
		bookID:   bookID,
		now:      time.Now,
	}
}

func (f *RequestFlow) SetReturnDate(d model.Date) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.returnDate = d
	f.alert = ""
}

// DurationDays is the hint under the date picker: whole days from today
// to the chosen date, never negative, zero while no date is picked.
func (f *RequestFlow) DurationDays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.returnDate.IsZero() {
		return 0
	}
	return f.returnDate.DaysFrom(f.now())
}

// Submit sends the request. Submitting without a date fails; submitting
// while a previous submit is still on the wire fails instead of
// doubling up. On success the form points the member at their loan
// list.
func (f *RequestFlow) Submit(ctx context.Context) (model.BorrowRecord, error) {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return model.BorrowRecord{}, err
	}

	f.mu.Lock()
	if f.returnDate.IsZero() {
		f.mu.Unlock()
		return model.BorrowRecord{}, errors.Wrap(errs.ErrValidation, "no return date chosen")
	}
	if f.submitting {
		f.mu.Unlock()
		return model.BorrowRecord{}, errors.Wrap(errs.ErrValidation, "request already submitting")
	}
	f.submitting = true
	req := model.CreateBorrowRequest{
		BookID:  f.bookID,
		DueDate: f.returnDate.EndOfDay(),
	}
	f.mu.Unlock()

	rec, _, err := f.client.CreateBorrow(ctx, sess, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.log.Warn("borrow request failed",
			zap.Int("bookId", f.bookID),
			zap.Error(err))
		f.alert = errs.UserMessage(err, "Failed to borrow book. Please try again.")
		return model.BorrowRecord{}, err
	}
	f.redirect = memberDashboardPath
	return rec, nil
}

func (f *RequestFlow) DismissAlert() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alert = ""
}

func (f *RequestFlow) State(ctx context.Context) RequestState {
	st := RequestState{MaxDuration: model.DefaultSettings().MaxBorrowDuration}
	if sess, err := sessionFrom(ctx); err == nil {
		if cfg, err := f.settings.Get(ctx, sess); err == nil {
			st.MaxDuration = cfg.MaxBorrowDuration
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	st.BookID = f.bookID
	st.ReturnDate = f.returnDate
	st.DurationDays = 0
	if !f.returnDate.IsZero() {
		st.DurationDays = f.returnDate.DaysFrom(f.now())
	}
	st.Submitting = f.submitting
	st.Redirect = f.redirect
	st.Alert = f.alert
	return st
}
