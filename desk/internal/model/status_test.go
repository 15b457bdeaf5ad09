package model_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
	"github.com/libradesk/circulation-desk/desk/internal/model"
)

func day(s string) model.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return model.NewDate(t)
}

func TestBorrowRecord_Approve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	rec := model.BorrowRecord{BorrowID: "b-1", Status: model.StatusPending}
	require.NoError(t, rec.Approve(now))
	require.Equal(t, model.StatusBorrowed, rec.Status)
	require.Equal(t, now, rec.BorrowDate.Time)

	for _, st := range []model.Status{
		model.StatusBorrowed,
		model.StatusOverdue,
		model.StatusReturned,
		model.StatusRejected,
		model.StatusCancelled,
		model.StatusUnknown,
	} {
		rec := model.BorrowRecord{BorrowID: "b-1", Status: st}
		err := rec.Approve(now)
		require.ErrorIs(t, err, errs.ErrValidation, "status %s", st)
		require.Equal(t, st, rec.Status, "status %s must not change", st)
	}
}

func TestBorrowRecord_RejectAndCancel(t *testing.T) {
	t.Parallel()

	rec := model.BorrowRecord{BorrowID: "b-1", Status: model.StatusPending}
	require.NoError(t, rec.Reject())
	require.Equal(t, model.StatusRejected, rec.Status)

	rec = model.BorrowRecord{BorrowID: "b-1", Status: model.StatusPending}
	require.NoError(t, rec.Cancel())
	require.Equal(t, model.StatusCancelled, rec.Status)

	require.ErrorIs(t, rec.Cancel(), errs.ErrValidation)
}

func TestBorrowRecord_Return(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	rec := model.BorrowRecord{BorrowID: "b-1", Status: model.StatusBorrowed}
	require.NoError(t, rec.Return(now))
	require.Equal(t, model.StatusReturned, rec.Status)
	require.Equal(t, now, rec.ReturnDate.Time)

	rec = model.BorrowRecord{BorrowID: "b-1", Status: model.StatusOverdue}
	require.ErrorIs(t, rec.Return(now), errs.ErrValidation)
}

func TestBorrowRecord_Extend(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	base := model.BorrowRecord{
		BorrowID:      "b-1",
		Status:        model.StatusBorrowed,
		DueDate:       day("2024-05-20"),
		CanBeExtended: true,
	}

	tests := []struct {
		name   string
		mutate func(r *model.BorrowRecord)
		newDue model.Date
		err    error
	}{
		{
			name:   "ok",
			mutate: func(r *model.BorrowRecord) {},
			newDue: day("2024-05-27"),
		},
		{
			name:   "not eligible",
			mutate: func(r *model.BorrowRecord) { r.CanBeExtended = false },
			newDue: day("2024-05-27"),
			err:    errs.ErrValidation,
		},
		{
			name:   "not borrowed",
			mutate: func(r *model.BorrowRecord) { r.Status = model.StatusPending },
			newDue: day("2024-05-27"),
			err:    errs.ErrValidation,
		},
		{
			name:   "same day as current due",
			mutate: func(r *model.BorrowRecord) {},
			newDue: day("2024-05-20"),
			err:    errs.ErrValidation,
		},
		{
			name:   "before current due",
			mutate: func(r *model.BorrowRecord) {},
			newDue: day("2024-05-15"),
			err:    errs.ErrValidation,
		},
		{
			name:   "in the past",
			mutate: func(r *model.BorrowRecord) { r.DueDate = day("2024-05-01") },
			newDue: day("2024-05-05"),
			err:    errs.ErrValidation,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := base
			tt.mutate(&rec)
			before := rec.DueDate
			err := rec.Extend(tt.newDue, now)
			if tt.err != nil {
				require.True(t, errors.Is(err, tt.err))
				require.Equal(t, before, rec.DueDate)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.newDue, rec.DueDate)
			require.Equal(t, model.StatusBorrowed, rec.Status)
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, model.StatusPending, model.ParseStatus("pending"))
	require.Equal(t, model.StatusBorrowed, model.ParseStatus("Borrowed"))
	require.Equal(t, model.StatusOverdue, model.ParseStatus("OVERDUE"))
	require.Equal(t, model.StatusUnknown, model.ParseStatus("archived"))
	require.False(t, model.StatusUnknown.Known())
	require.True(t, model.StatusReturned.Terminal())
	require.False(t, model.StatusBorrowed.Terminal())
}

func TestAvailableActions(t *testing.T) {
	t.Parallel()

	rec := model.BorrowRecord{Status: model.StatusPending}
	require.Equal(t, []model.Action{model.ActionCancel}, rec.AvailableActions())

	rec = model.BorrowRecord{Status: model.StatusBorrowed}
	require.Equal(t, []model.Action{model.ActionReturn}, rec.AvailableActions())

	rec = model.BorrowRecord{Status: model.StatusBorrowed, CanBeExtended: true}
	require.Equal(t, []model.Action{model.ActionExtend, model.ActionReturn}, rec.AvailableActions())

	for _, st := range []model.Status{
		model.StatusOverdue,
		model.StatusReturned,
		model.StatusRejected,
		model.StatusCancelled,
		model.StatusUnknown,
	} {
		rec := model.BorrowRecord{Status: st, CanBeExtended: true}
		require.Empty(t, rec.AvailableActions(), "status %s", st)
	}
}
