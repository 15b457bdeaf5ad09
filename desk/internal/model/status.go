package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusBorrowed  Status = "Borrowed"
	StatusOverdue   Status = "Overdue"
	StatusReturned  Status = "Returned"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"

	// StatusUnknown renders as a badge for values this client does not
	// recognize; it admits no transitions.
	StatusUnknown Status = "Unknown"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusBorrowed:  {},
	StatusOverdue:   {},
	StatusReturned:  {},
	StatusRejected:  {},
	StatusCancelled: {},
}

// ParseStatus maps a wire value onto the vocabulary, case-insensitively,
// falling back to StatusUnknown rather than failing.
func ParseStatus(s string) Status {
	for known := range knownStatuses {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return StatusUnknown
}

// UnmarshalJSON normalizes unrecognized wire values to StatusUnknown so
// a new server-side status never crashes the transition logic. A missing
// status field stays empty and is caught by Validate.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Terminal statuses can never be reassigned.
func (s Status) Terminal() bool {
	return s == StatusReturned || s == StatusRejected || s == StatusCancelled
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionReturn  Action = "return"
	ActionExtend  Action = "extend"
)

const DefaultRejectReason = "Rejected by administrator"

// actionSource is the required current status for each client-initiated
// action. Borrowed -> Overdue is background-owned and never appears here.
var actionSource = map[Action]Status{
	ActionApprove: StatusPending,
	ActionReject:  StatusPending,
	ActionCancel:  StatusPending,
	ActionReturn:  StatusBorrowed,
	ActionExtend:  StatusBorrowed,
}

func (a Action) AllowedFor(s Status) bool {
	return actionSource[a] == s
}

func (r *BorrowRecord) guard(a Action) error {
	if !a.AllowedFor(r.Status) {
		return errors.Wrapf(errs.ErrValidation, "cannot %s a %s record", a, r.Status)
	}
	return nil
}

// Approve moves Pending to Borrowed and stamps the borrow date.
func (r *BorrowRecord) Approve(now time.Time) error {
	if err := r.guard(ActionApprove); err != nil {
		return err
	}
	r.Status = StatusBorrowed
	r.BorrowDate = NewDate(now)
	return nil
}

func (r *BorrowRecord) Reject() error {
	if err := r.guard(ActionReject); err != nil {
		return err
	}
	r.Status = StatusRejected
	return nil
}

func (r *BorrowRecord) Cancel() error {
	if err := r.guard(ActionCancel); err != nil {
		return err
	}
	r.Status = StatusCancelled
	return nil
}

func (r *BorrowRecord) Return(now time.Time) error {
	if err := r.guard(ActionReturn); err != nil {
		return err
	}
	r.Status = StatusReturned
	r.ReturnDate = NewDate(now)
	return nil
}

// Extend mutates dueDate only. Eligibility comes from the authoritative
// canBeExtended flag, never derived locally; the new date must land on a
// strictly later day than both the current due date and today.
func (r *BorrowRecord) Extend(newDue Date, now time.Time) error {
	if err := r.guard(ActionExtend); err != nil {
		return err
	}
	if !r.CanBeExtended {
		return errors.Wrap(errs.ErrValidation, "record is not eligible for extension")
	}
	if !newDue.AfterDay(r.DueDate.Time) {
		return errors.Wrap(errs.ErrValidation, "new due date must be after the current due date")
	}
	if !newDue.AfterDay(now) {
		return errors.Wrap(errs.ErrValidation, "new due date must be in the future")
	}
	r.DueDate = newDue
	return nil
}

// AvailableActions drives the presentation layer: controls for other
// actions are simply not rendered for the row.
func (r BorrowRecord) AvailableActions() []Action {
	switch r.Status {
	case StatusPending:
		return []Action{ActionCancel}
	case StatusBorrowed:
		if r.CanBeExtended {
			return []Action{ActionExtend, ActionReturn}
		}
		return []Action{ActionReturn}
	default:
		return nil
	}
}
