package view

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

func sessionFrom(ctx context.Context) (auth.Session, error) {
	sess, ok := auth.SessionFromContext(ctx)
	if !ok || sess.Username == "" {
		return auth.Session{}, errors.Wrap(errs.ErrUserName, "no session")
	}
	return sess, nil
}

// QueueState is a snapshot of the approval queue for rendering.
type QueueState struct {
	Items      []model.BorrowRecord `json:"items"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	PageSize   int                  `json:"pageSize"`
	Pending    *PendingAction       `json:"pending,omitempty"`
	Toast      *ToastMessage        `json:"toast,omitempty"`
	Alert      string               `json:"alert,omitempty"`
}

// ApprovalQueue is the staff view over pending borrow requests. Approve
// and reject pass through a confirmation gate; a confirmed action that
// succeeds removes the row without re-fetching the page.
type ApprovalQueue struct {
	log    *zap.Logger
	client CirculationClient
	gate   *ConfirmGate
	toast  *Toast

	mu         sync.Mutex
	items      []model.BorrowRecord
	page       int
	totalPages int
	pageSize   int
	alert      string
	inFlight   map[string]model.Action
	now        func() time.Time
}

func NewApprovalQueue(client CirculationClient, toast *Toast, pageSize int, log *zap.Logger) *ApprovalQueue {
	q := &ApprovalQueue{
		log:      log,
		client:   client,
		toast:    toast,
		page:     1,
		pageSize: pageSize,
		inFlight: make(map[string]model.Action),
		now:      time.Now,
	}
	q.gate = NewConfirmGate(q.execute)
	return q
}

func (q *ApprovalQueue) Refresh(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	q.mu.Lock()
	page, pageSize := q.page, q.pageSize
	q.mu.Unlock()

	pageData, _, err := q.client.ListPendingBorrows(ctx, sess, page, pageSize)
	if err != nil {
		return errors.Wrap(err, "list pending borrows")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = pageData.Items
	q.totalPages = pageData.TotalPages
	if q.totalPages > 0 && q.page > q.totalPages {
		q.page = q.totalPages
	}
	return nil
}

// SetPage clamps the target into [1, totalPages] and re-fetches.
func (q *ApprovalQueue) SetPage(ctx context.Context, page int) error {
	q.mu.Lock()
	if page < 1 {
		page = 1
	}
	if q.totalPages > 0 && page > q.totalPages {
		page = q.totalPages
	}
	q.page = page
	q.mu.Unlock()

	return q.Refresh(ctx)
}

// RequestApprove opens the confirmation gate for the given row. Nothing
// is sent to the circulation service until the gate is confirmed.
func (q *ApprovalQueue) RequestApprove(borrowID string) error {
	return q.request(model.ActionApprove, borrowID)
}

func (q *ApprovalQueue) RequestReject(borrowID string) error {
	return q.request(model.ActionReject, borrowID)
}

func (q *ApprovalQueue) request(action model.Action, borrowID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec, ok := q.find(borrowID)
	if !ok {
		return errors.Wrapf(errs.ErrNotFound, "borrow %s not on current page", borrowID)
	}
	if !action.AllowedFor(rec.Status) {
		return errors.Wrapf(errs.ErrValidation, "cannot %s a %s request", action, rec.Status)
	}
	q.gate.Open(action, rec)
	return nil
}

func (q *ApprovalQueue) Confirm(ctx context.Context) error {
	return q.gate.Confirm(ctx)
}

func (q *ApprovalQueue) Dismiss() {
	q.gate.Dismiss()
}

// execute runs a confirmed action. On success the row is dropped from
// the local page and a toast is raised; on failure the page is left
// intact and a blocking alert carries the reason.
func (q *ApprovalQueue) execute(ctx context.Context, pending PendingAction) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	id := pending.Subject.BorrowID

	q.mu.Lock()
	if _, busy := q.inFlight[id]; busy {
		q.mu.Unlock()
		return errors.Wrapf(errs.ErrValidation, "borrow %s already has an action in flight", id)
	}
	rec := pending.Subject
	switch pending.Action {
	case model.ActionApprove:
		err = rec.Approve(q.now())
	case model.ActionReject:
		err = rec.Reject()
	default:
		err = errors.Wrapf(errs.ErrValidation, "action %s not available here", pending.Action)
	}
	if err != nil {
		q.mu.Unlock()
		return err
	}
	q.inFlight[id] = pending.Action
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		delete(q.inFlight, id)
		q.mu.Unlock()
	}()

	switch pending.Action {
	case model.ActionApprove:
		_, err = q.client.ApproveBorrow(ctx, sess, id)
	case model.ActionReject:
		_, err = q.client.RejectBorrow(ctx, sess, id, model.DefaultRejectReason)
	}
	if err != nil {
		q.log.Warn("queue action failed",
			zap.String("action", string(pending.Action)),
			zap.String("borrowId", id),
			zap.Error(err))
		q.mu.Lock()
		q.alert = errs.UserMessage(err, "Failed to "+string(pending.Action)+" request.")
		q.mu.Unlock()
		return err
	}

	q.mu.Lock()
	q.remove(id)
	q.mu.Unlock()

	if pending.Action == model.ActionApprove {
		q.toast.Show(ToastSuccess, "Request accepted")
	} else {
		q.toast.Show(ToastReject, "Request rejected")
	}
	return nil
}

func (q *ApprovalQueue) DismissAlert() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alert = ""
}

func (q *ApprovalQueue) State() QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()

	st := QueueState{
		Items:      append([]model.BorrowRecord(nil), q.items...),
		Page:       q.page,
		TotalPages: q.totalPages,
		PageSize:   q.pageSize,
		Alert:      q.alert,
	}
	if pending, ok := q.gate.Pending(); ok {
		st.Pending = &pending
	}
	if toast, ok := q.toast.Current(); ok {
		st.Toast = &toast
	}
	return st
}

// callers hold q.mu
func (q *ApprovalQueue) find(borrowID string) (model.BorrowRecord, bool) {
	for _, rec := range q.items {
		if rec.BorrowID == borrowID {
			return rec, true
		}
	}
	return model.BorrowRecord{}, false
}

func (q *ApprovalQueue) remove(borrowID string) {
	for i, rec := range q.items {
		if rec.BorrowID == borrowID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
