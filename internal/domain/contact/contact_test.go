package contact

import (
	"errors"
	"testing"
	"time"

	"github.com/contactd/contactd/internal/domain"
)

func validCreateRequest() CreateRequest {
	return CreateRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "111",
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	req := validCreateRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missing := validCreateRequest()
	missing.FirstName = ""
	if err := missing.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing first_name: got %v, want ErrValidation", err)
	}

	badEmail := validCreateRequest()
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad email: got %v, want ErrValidation", err)
	}

	longPhone := validCreateRequest()
	longPhone.Phone = "123456789012345678901"
	if err := longPhone.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("long phone: got %v, want ErrValidation", err)
	}
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Skip: -5, Limit: 0}
	f.Normalize()
	if f.Skip != 0 {
		t.Errorf("skip = %d, want 0", f.Skip)
	}
	if f.Limit != DefaultListLimit {
		t.Errorf("limit = %d, want %d", f.Limit, DefaultListLimit)
	}

	f = Filter{Limit: 5000}
	f.Normalize()
	if f.Limit != DefaultListLimit {
		t.Errorf("oversized limit = %d, want %d", f.Limit, DefaultListLimit)
	}
}

func TestBirthdayInWindow(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	birthdate := date(1990, time.June, 15)

	if !BirthdayInWindow(birthdate, date(2024, time.June, 10), date(2024, time.June, 17)) {
		t.Error("birthday inside window not detected")
	}
	if BirthdayInWindow(birthdate, date(2024, time.June, 16), date(2024, time.June, 23)) {
		t.Error("birthday before window wrongly detected")
	}
	// Window boundaries are inclusive.
	if !BirthdayInWindow(birthdate, date(2024, time.June, 15), date(2024, time.June, 15)) {
		t.Error("birthday on boundary not detected")
	}
	// Intra-day timestamps must not exclude a same-day birthday.
	if !BirthdayInWindow(birthdate, time.Date(2024, time.June, 15, 23, 0, 0, 0, time.UTC), date(2024, time.June, 20)) {
		t.Error("birthday on from-day with later clock time not detected")
	}
}

func TestBirthdayInWindow_YearWrap(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	newYear := date(1985, time.January, 2)
	if !BirthdayInWindow(newYear, date(2024, time.December, 28), date(2025, time.January, 4)) {
		t.Error("january birthday in year-wrapping window not detected")
	}

	decBirthday := date(1985, time.December, 30)
	if !BirthdayInWindow(decBirthday, date(2024, time.December, 28), date(2025, time.January, 4)) {
		t.Error("december birthday in year-wrapping window not detected")
	}

	midYear := date(1985, time.June, 15)
	if BirthdayInWindow(midYear, date(2024, time.December, 28), date(2025, time.January, 4)) {
		t.Error("june birthday wrongly detected in december window")
	}

	if BirthdayInWindow(midYear, date(2024, time.June, 20), date(2024, time.June, 10)) {
		t.Error("inverted window must match nothing")
	}
}

// In non-leap years a Feb 29 birthdate normalizes to Mar 1, which is the
// projection we want: the birthday is still observed once a year.
func TestBirthdayInWindow_LeapDay(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	leapling := date(1996, time.February, 29)

	// Leap year: matched on Feb 29 itself, not Mar 1.
	if !BirthdayInWindow(leapling, date(2024, time.February, 26), date(2024, time.March, 4)) {
		t.Error("feb 29 birthday in leap year not detected")
	}
	if BirthdayInWindow(leapling, date(2024, time.March, 1), date(2024, time.March, 7)) {
		t.Error("feb 29 birthday wrongly projected to mar 1 in a leap year")
	}

	// Non-leap year: observed on Mar 1.
	if !BirthdayInWindow(leapling, date(2025, time.February, 26), date(2025, time.March, 4)) {
		t.Error("feb 29 birthday in non-leap year not detected")
	}
	if !BirthdayInWindow(leapling, date(2025, time.March, 1), date(2025, time.March, 7)) {
		t.Error("feb 29 birthday not observed on mar 1 in a non-leap year")
	}
	if BirthdayInWindow(leapling, date(2025, time.February, 22), date(2025, time.February, 28)) {
		t.Error("feb 29 birthday wrongly detected before mar 1 in a non-leap year")
	}
}
