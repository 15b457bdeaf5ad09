package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libradesk/circulation-desk/desk/internal/model"
)

func TestBorrowRecord_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want model.BorrowRecord
	}{
		{
			name: "member shape",
			body: `{
				"borrowId": "b-42",
				"bookId": 7,
				"bookTitle": "The Go Programming Language",
				"bookCoverImage": "/covers/7.jpg",
				"dueDate": "2024-05-20T23:59:59.999Z",
				"status": "Borrowed",
				"canBeExtended": true
			}`,
			want: model.BorrowRecord{
				BorrowID:       "b-42",
				BookID:         7,
				BookTitle:      "The Go Programming Language",
				BookCoverImage: "/covers/7.jpg",
				DueDate:        model.NewDate(time.Date(2024, 5, 20, 23, 59, 59, 999_000_000, time.UTC)),
				Status:         model.StatusBorrowed,
				CanBeExtended:  true,
			},
		},
		{
			name: "admin shape with numeric id and aliases",
			body: `{
				"id": 42,
				"title": "The Go Programming Language",
				"coverImagePath": "/covers/7.jpg",
				"userName": "reader-1",
				"requestDate": "2024-05-01",
				"status": "pending"
			}`,
			want: model.BorrowRecord{
				BorrowID:       "42",
				BookTitle:      "The Go Programming Language",
				BookCoverImage: "/covers/7.jpg",
				UserName:       "reader-1",
				RequestDate:    model.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
				Status:         model.StatusPending,
			},
		},
		{
			name: "unrecognized status becomes Unknown",
			body: `{"borrowId": "b-1", "status": "Archived"}`,
			want: model.BorrowRecord{BorrowID: "b-1", Status: model.StatusUnknown},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var rec model.BorrowRecord
			require.NoError(t, json.Unmarshal([]byte(tt.body), &rec))
			require.Equal(t, tt.want, rec)
		})
	}
}

func TestBorrowRecord_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, model.BorrowRecord{BorrowID: "b-1", Status: model.StatusPending}.Validate())
	require.Error(t, model.BorrowRecord{Status: model.StatusPending}.Validate())
	require.Error(t, model.BorrowRecord{BorrowID: "b-1"}.Validate())
}

func TestDate_EndOfDay(t *testing.T) {
	t.Parallel()

	d := day("2024-05-20").EndOfDay()
	require.Equal(t, time.Date(2024, 5, 20, 23, 59, 59, 999_000_000, time.UTC), d.Time)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-05-20T23:59:59.999Z"`, string(b))
}

func TestDate_DaysFrom(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	require.Equal(t, 0, day("2024-05-10").DaysFrom(today))
	require.Equal(t, 1, day("2024-05-11").DaysFrom(today))
	require.Equal(t, 10, day("2024-05-20").DaysFrom(today))
	require.Equal(t, 0, day("2024-05-01").DaysFrom(today), "past dates clamp to zero")

	// time-of-day never bleeds into the hint
	lateEvening := time.Date(2024, 5, 10, 23, 45, 0, 0, time.UTC)
	require.Equal(t, 1, day("2024-05-11").DaysFrom(lateEvening))
}

func TestDate_Marshalling(t *testing.T) {
	t.Parallel()

	var d model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-20T10:00:00Z"`), &d))
	require.False(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))

	var zero model.Date
	b, err := json.Marshal(zero)
	require.NoError(t, err)
	require.Equal(t, `""`, string(b))

	require.Error(t, json.Unmarshal([]byte(`"20/05/2024"`), &d))
}

func TestSettings_Clamp(t *testing.T) {
	t.Parallel()

	s := model.CirculationSettings{
		MaxBorrowDuration:  0,
		MaxExtensionLimit:  -3,
		MaxBorrowLimit:     5,
		MaxBookingDuration: 1,
		MaxBookingLimit:    0,
	}
	s.Clamp()
	require.Equal(t, model.CirculationSettings{
		MaxBorrowDuration:  1,
		MaxExtensionLimit:  1,
		MaxBorrowLimit:     5,
		MaxBookingDuration: 1,
		MaxBookingLimit:    1,
	}, s)

	require.Equal(t, 14, model.DefaultSettings().MaxBorrowDuration)
	require.Equal(t, 5, model.DefaultSettings().MaxBorrowLimit)
}
