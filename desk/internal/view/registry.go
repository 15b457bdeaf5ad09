package view

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libradesk/circulation-desk/desk/internal/model"
)

// RegistryState is a snapshot of the active loan registry for rendering.
type RegistryState struct {
	Items      []model.BorrowRecord `json:"items"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	PageSize   int                  `json:"pageSize"`
}

// LoanRegistry is the staff view over loans currently out. It is strictly
// read-only: overdue is reported by the circulation service, never
// derived or acted on here.
type LoanRegistry struct {
	log    *zap.Logger
	client CirculationClient

	mu         sync.Mutex
	items      []model.BorrowRecord
	page       int
	totalPages int
	pageSize   int
}

func NewLoanRegistry(client CirculationClient, pageSize int, log *zap.Logger) *LoanRegistry {
	return &LoanRegistry{
		log:      log,
		client:   client,
		page:     1,
		pageSize: pageSize,
	}
}

func (r *LoanRegistry) Refresh(ctx context.Context) error {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	page, pageSize := r.page, r.pageSize
	r.mu.Unlock()

	pageData, _, err := r.client.ListActiveBorrows(ctx, sess, page, pageSize)
	if err != nil {
		return errors.Wrap(err, "list active borrows")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = pageData.Items
	r.totalPages = pageData.TotalPages
	if r.totalPages > 0 && r.page > r.totalPages {
		r.page = r.totalPages
	}
	return nil
}

func (r *LoanRegistry) SetPage(ctx context.Context, page int) error {
	r.mu.Lock()
	if page < 1 {
		page = 1
	}
	if r.totalPages > 0 && page > r.totalPages {
		page = r.totalPages
	}
	r.page = page
	r.mu.Unlock()

	return r.Refresh(ctx)
}

func (r *LoanRegistry) State() RegistryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RegistryState{
		Items:      append([]model.BorrowRecord(nil), r.items...),
		Page:       r.page,
		TotalPages: r.totalPages,
		PageSize:   r.pageSize,
	}
}
