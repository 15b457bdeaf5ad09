package view

import (
	"context"

	"github.com/libradesk/circulation-desk/desk/internal/model"
	"github.com/libradesk/circulation-desk/desk/internal/service/circulation"
	"github.com/libradesk/circulation-desk/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ CirculationClient = (*circulation.Service)(nil)

// CirculationClient is the slice of the remote circulation API the view
// controllers consume. Every view fetches its own pages through it; none
// shares records with another.
type CirculationClient interface {
	CreateBorrow(ctx context.Context, sess auth.Session, req model.CreateBorrowRequest) (model.BorrowRecord, int, error)
	ListPendingBorrows(ctx context.Context, sess auth.Session, page, pageSize int) (model.BorrowPage, int, error)
	ListActiveBorrows(ctx context.Context, sess auth.Session, page, pageSize int) (model.BorrowPage, int, error)
	ListMemberBorrows(ctx context.Context, sess auth.Session) ([]model.BorrowRecord, int, error)
	ApproveBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error)
	RejectBorrow(ctx context.Context, sess auth.Session, borrowID, reason string) (int, error)
	ExtendBorrow(ctx context.Context, sess auth.Session, req model.ExtendBorrowRequest) (int, error)
	ReturnBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error)
	CancelBorrow(ctx context.Context, sess auth.Session, borrowID string) (int, error)
}
