package view

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
)

const (
	// historyPreview is how many rows the member list shows before the
	// show-all toggle.
	historyPreview = 5

	// extendSeedDays pre-fills the extension date picker relative to the
	// current due date.
	extendSeedDays = 7
)

// ExtendForm is the open extension date picker for one row.
type ExtendForm struct {
	BorrowID   string     `json:"borrowId"`
	NewDueDate model.Date `json:"newDueDate"`
}

// MemberState is a snapshot of one member's loan list for rendering.
type MemberState struct {
	Items    []model.BorrowRecord    `json:"items"`
	Total    int                     `json:"total"`
	ShowAll  bool                    `json:"showAll"`
	InFlight map[string]model.Action `json:"inFlight,omitempty"`
	Extend   *ExtendForm             `json:"extend,omitempty"`
	Toast    *ToastMessage           `json:"toast,omitempty"`
	Alert    string                  `json:"alert,omitempty"`
}

// MemberManager is one member's view over their own borrow records:
// cancel while pending, return or extend while borrowed. Each record
// admits at most one action in flight; a second request for the same row
// fails instead of queueing.
type MemberManager struct {
	log    *zap.Logger
	client CirculationClient
	toast  *Toast

	mu       sync.Mutex
	items    []model.BorrowRecord
	showAll  bool
	inFlight map[string]model.Action
	extend   *ExtendForm
	alert    string
	now      func() time.Time
}

func NewMemberManager(client CirculationClient, toast *Toast, log *zap.Logger) *MemberManager {
	return &MemberManager{
		log:      log,
		client:   client,
		toast:    toast,
		inFlight: make(map[string]model.Action),
		now:      time.Now,
	}
}

func (m *MemberManager) Refresh(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	records, _, err := m.client.ListMemberBorrows(ctx, sess)
	if err != nil {
		return errors.Wrap(err, "list member borrows")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = records
	return nil
}

func (m *MemberManager) ToggleShowAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showAll = !m.showAll
}

// OpenExtend opens the date picker for an eligible row, seeded a week
// past the current due date.
func (m *MemberManager) OpenExtend(borrowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.find(borrowID)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "borrow %s not found", borrowID)
	}
	if rec.Status != model.StatusBorrowed || !rec.CanBeExtended {
		return errors.Wrap(errs.ErrValidation, "record is not eligible for extension")
	}
	m.extend = &ExtendForm{
		BorrowID:   borrowID,
		NewDueDate: model.NewDate(rec.DueDate.AddDate(0, 0, extendSeedDays)),
	}
	return nil
}

func (m *MemberManager) SetExtendDate(d model.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.extend == nil {
		return errors.Wrap(errs.ErrValidation, "no extension in progress")
	}
	m.extend.NewDueDate = d
	return nil
}

func (m *MemberManager) CloseExtend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extend = nil
}

// SubmitExtend sends the open extension. The new date is validated
// against the record before anything leaves the process; on success the
// row's due date is patched in place and the picker closes.
func (m *MemberManager) SubmitExtend(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.extend == nil {
		m.mu.Unlock()
		return errors.Wrap(errs.ErrValidation, "no extension in progress")
	}
	form := *m.extend
	rec, ok := m.find(form.BorrowID)
	if !ok {
		m.extend = nil
		m.mu.Unlock()
		return errors.Wrapf(errs.ErrNotFound, "borrow %s not found", form.BorrowID)
	}
	if err := rec.Extend(form.NewDueDate, m.now()); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.markBusy(form.BorrowID, model.ActionExtend); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()
	defer m.clearBusy(form.BorrowID)

	_, err = m.client.ExtendBorrow(ctx, sess, model.ExtendBorrowRequest{
		BorrowID:   form.BorrowID,
		NewDueDate: form.NewDueDate,
	})
	if err != nil {
		m.fail("extend", form.BorrowID, err, "Failed to extend borrow period")
		return err
	}

	m.mu.Lock()
	m.patch(form.BorrowID, func(r *model.BorrowRecord) {
		r.DueDate = form.NewDueDate
	})
	m.extend = nil
	m.mu.Unlock()

	m.toast.Show(ToastSuccess, "Borrow period extended successfully!")
	return nil
}

// Return sends a return for a borrowed row and patches it terminal.
func (m *MemberManager) Return(ctx context.Context, borrowID string) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	now := m.now()
	if err := m.prepare(borrowID, model.ActionReturn, func(r *model.BorrowRecord) error {
		return r.Return(now)
	}); err != nil {
		return err
	}
	defer m.clearBusy(borrowID)

	if _, err := m.client.ReturnBorrow(ctx, sess, borrowID); err != nil {
		m.fail("return", borrowID, err, "Failed to return book")
		return err
	}

	m.mu.Lock()
	m.patch(borrowID, func(r *model.BorrowRecord) {
		r.Status = model.StatusReturned
		r.ReturnDate = model.NewDate(now)
	})
	m.mu.Unlock()

	m.toast.Show(ToastSuccess, "Book returned successfully!")
	return nil
}

// Cancel withdraws a still-pending request.
func (m *MemberManager) Cancel(ctx context.Context, borrowID string) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	if err := m.prepare(borrowID, model.ActionCancel, func(r *model.BorrowRecord) error {
		return r.Cancel()
	}); err != nil {
		return err
	}
	defer m.clearBusy(borrowID)

	if _, err := m.client.CancelBorrow(ctx, sess, borrowID); err != nil {
		m.fail("cancel", borrowID, err, "Failed to cancel borrow request")
		return err
	}

	m.mu.Lock()
	m.patch(borrowID, func(r *model.BorrowRecord) {
		r.Status = model.StatusCancelled
	})
	m.mu.Unlock()

	m.toast.Show(ToastSuccess, "Borrow request cancelled successfully!")
	return nil
}

// prepare dry-runs the transition on a copy and marks the row busy.
func (m *MemberManager) prepare(borrowID string, action model.Action, try func(*model.BorrowRecord) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.find(borrowID)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "borrow %s not found", borrowID)
	}
	if err := try(&rec); err != nil {
		return err
	}
	return m.markBusy(borrowID, action)
}

// caller holds m.mu
func (m *MemberManager) markBusy(borrowID string, action model.Action) error {
	if current, busy := m.inFlight[borrowID]; busy {
		return errors.Wrapf(errs.ErrValidation, "borrow %s already has %s in flight", borrowID, current)
	}
	m.inFlight[borrowID] = action
	return nil
}

func (m *MemberManager) clearBusy(borrowID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, borrowID)
}

func (m *MemberManager) fail(what, borrowID string, err error, fallback string) {
	m.log.Warn("member action failed",
		zap.String("action", what),
		zap.String("borrowId", borrowID),
		zap.Error(err))
	m.mu.Lock()
	m.alert = errs.UserMessage(err, fallback)
	m.mu.Unlock()
}

func (m *MemberManager) DismissAlert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alert = ""
}

// State returns the visible window: the newest rows up to the preview
// size, or everything once show-all is on.
func (m *MemberManager) State() MemberState {
	m.mu.Lock()
	defer m.mu.Unlock()

	visible := m.items
	if !m.showAll && len(visible) > historyPreview {
		visible = visible[:historyPreview]
	}

	st := MemberState{
		Items:   append([]model.BorrowRecord(nil), visible...),
		Total:   len(m.items),
		ShowAll: m.showAll,
		Alert:   m.alert,
	}
	if len(m.inFlight) > 0 {
		st.InFlight = make(map[string]model.Action, len(m.inFlight))
		for k, v := range m.inFlight {
			st.InFlight[k] = v
		}
	}
	if m.extend != nil {
		form := *m.extend
		st.Extend = &form
	}
	if toast, ok := m.toast.Current(); ok {
		st.Toast = &toast
	}
	return st
}

// callers hold m.mu
func (m *MemberManager) find(borrowID string) (model.BorrowRecord, bool) {
	for _, rec := range m.items {
		if rec.BorrowID == borrowID {
			return rec, true
		}
	}
	return model.BorrowRecord{}, false
}

func (m *MemberManager) patch(borrowID string, fn func(*model.BorrowRecord)) {
	for i := range m.items {
		if m.items[i].BorrowID == borrowID {
			fn(&m.items[i])
			return
		}
	}
}
