package view

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
)

// PendingAction is a requested transition awaiting staff confirmation.
type PendingAction struct {
	Action  model.Action       `json:"action"`
	Subject model.BorrowRecord `json:"subject"`
}

type ConfirmFunc func(ctx context.Context, pending PendingAction) error

// ConfirmGate interposes a confirm/dismiss step between requesting an
// action and executing it. At most one action is pending at a time;
// opening a new one replaces the previous.
type ConfirmGate struct {
	mu      sync.Mutex
	pending *PendingAction
	confirm ConfirmFunc
}

func NewConfirmGate(confirm ConfirmFunc) *ConfirmGate {
	return &ConfirmGate{confirm: confirm}
}

func (g *ConfirmGate) Open(action model.Action, subject model.BorrowRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &PendingAction{Action: action, Subject: subject}
}

func (g *ConfirmGate) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

func (g *ConfirmGate) Pending() (PendingAction, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return PendingAction{}, false
	}
	return *g.pending, true
}

// Confirm executes the pending action. The gate closes whether the
// action succeeds or fails.
func (g *ConfirmGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	if g.pending == nil {
		g.mu.Unlock()
		return errors.Wrap(errs.ErrValidation, "no action awaiting confirmation")
	}
	pending := *g.pending
	g.pending = nil
	g.mu.Unlock()

	return g.confirm(ctx, pending)
}
