package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/libradesk/circulation-desk/desk/internal/errs"
)

// BorrowRecord is the unit entity of the borrow lifecycle, normalized
// from the circulation service's payload shapes. bookTitle/userName are
// display projections, never edited here.
type BorrowRecord struct {
	BorrowID       string `json:"borrowId"`
	BookID         int    `json:"bookId"`
	UserID         int    `json:"userId"`
	BookTitle      string `json:"bookTitle"`
	UserName       string `json:"userName"`
	BookCoverImage string `json:"bookCoverImage,omitempty"`
	RequestDate    Date   `json:"requestDate,omitempty"`
	BorrowDate     Date   `json:"borrowDate,omitempty"`
	DueDate        Date   `json:"dueDate,omitempty"`
	ReturnDate     Date   `json:"returnDate,omitempty"`
	Status         Status `json:"status"`
	CanBeExtended  bool   `json:"canBeExtended"`
}

// UnmarshalJSON absorbs the service's duck-typed payload shapes: the
// admin endpoints name fields differently (id/borrowId, title/bookTitle,
// coverImagePath/bookCoverImage) and emit ids as numbers. Everything is
// normalized here so no view branches on raw payload shape.
func (r *BorrowRecord) UnmarshalJSON(b []byte) error {
	var w struct {
		BorrowID       flexID `json:"borrowId"`
		ID             flexID `json:"id"`
		BookID         int    `json:"bookId"`
		UserID         int    `json:"userId"`
		BookTitle      string `json:"bookTitle"`
		Title          string `json:"title"`
		UserName       string `json:"userName"`
		BookCoverImage string `json:"bookCoverImage"`
		CoverImagePath string `json:"coverImagePath"`
		RequestDate    Date   `json:"requestDate"`
		BorrowDate     Date   `json:"borrowDate"`
		DueDate        Date   `json:"dueDate"`
		ReturnDate     Date   `json:"returnDate"`
		Status         Status `json:"status"`
		CanBeExtended  bool   `json:"canBeExtended"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = BorrowRecord{
		BorrowID:       coalesce(string(w.BorrowID), string(w.ID)),
		BookID:         w.BookID,
		UserID:         w.UserID,
		BookTitle:      coalesce(w.BookTitle, w.Title),
		UserName:       w.UserName,
		BookCoverImage: coalesce(w.BookCoverImage, w.CoverImagePath),
		RequestDate:    w.RequestDate,
		BorrowDate:     w.BorrowDate,
		DueDate:        w.DueDate,
		ReturnDate:     w.ReturnDate,
		Status:         w.Status,
		CanBeExtended:  w.CanBeExtended,
	}
	return nil
}

// flexID accepts a server id sent either as a JSON number or a string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Validate guards the collaborator boundary: a record without identity
// or status never enters the views.
func (r BorrowRecord) Validate() error {
	if r.BorrowID == "" {
		return errors.Wrap(errs.ErrValidation, "borrow record without borrowId")
	}
	if r.Status == "" {
		return errors.Wrap(errs.ErrValidation, "borrow record without status")
	}
	return nil
}

// BorrowPage is one pagination window of records plus the server's page
// count for the full set.
type BorrowPage struct {
	Items      []BorrowRecord `json:"items"`
	TotalPages int            `json:"totalPages"`
}

// CirculationSettings are the staff-owned global limits. The borrow
// flows only read them.
type CirculationSettings struct {
	MaxBorrowDuration  int `json:"maxBorrowDuration" validate:"required,gte=1"`
	MaxExtensionLimit  int `json:"maxExtensionLimit" validate:"required,gte=1"`
	MaxBorrowLimit     int `json:"maxBorrowLimit" validate:"required,gte=1"`
	MaxBookingDuration int `json:"maxBookingDuration" validate:"required,gte=1"`
	MaxBookingLimit    int `json:"maxBookingLimit" validate:"required,gte=1"`
}

func DefaultSettings() CirculationSettings {
	return CirculationSettings{
		MaxBorrowDuration:  14,
		MaxExtensionLimit:  1,
		MaxBorrowLimit:     5,
		MaxBookingDuration: 7,
		MaxBookingLimit:    3,
	}
}

// Clamp floors every limit at 1, mirroring the settings form input.
func (s *CirculationSettings) Clamp() {
	for _, v := range []*int{
		&s.MaxBorrowDuration,
		&s.MaxExtensionLimit,
		&s.MaxBorrowLimit,
		&s.MaxBookingDuration,
		&s.MaxBookingLimit,
	} {
		if *v < 1 {
			*v = 1
		}
	}
}

type CreateBorrowRequest struct {
	BookID  int  `json:"bookId" validate:"required"`
	DueDate Date `json:"dueDate" validate:"required"`
}

type ExtendBorrowRequest struct {
	BorrowID   string `json:"borrowId" validate:"required"`
	NewDueDate Date   `json:"newDueDate" validate:"required"`
}

type RejectBorrowRequest struct {
	Reason string `json:"reason"`
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Date tolerates the service's mixed date encodings (RFC3339 with or
// without fraction, bare date) and marshals back as millisecond ISO.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date { return Date{Time: t} }

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}
	return errors.Errorf("unparsable date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte("\"" + d.UTC().Format(isoMillis) + "\""), nil
}

// EndOfDay normalizes to 23:59:59.999 UTC of the same calendar day,
// the instant the create request carries.
func (d Date) EndOfDay() Date {
	y, m, day := d.Date()
	return Date{Time: time.Date(y, m, day, 23, 59, 59, 999_000_000, time.UTC)}
}

// DaysFrom is the whole-day distance from the given day to d, rounded
// up and clamped at zero. Used for the borrowing-duration hint only.
func (d Date) DaysFrom(from time.Time) int {
	start := truncateDay(from)
	end := truncateDay(d.Time)
	days := int(end.Sub(start) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// AfterDay reports whether d falls on a strictly later calendar day
// than other.
func (d Date) AfterDay(other time.Time) bool {
	return truncateDay(d.Time).After(truncateDay(other))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
