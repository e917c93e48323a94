package library

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newManager(t *testing.T) *LibraryManager {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		DBPath:         filepath.Join(dir, "lib.db"),
		LoanPeriodDays: 14,
		FineRatePerDay: 200,
	}
	mgr, err := NewLibraryManager(cfg)
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestRegisterAndLogin(t *testing.T) {
	mgr := newManager(t)

	u := &User{UserID: "U1", Name: "Rex", MemberID: "M1"}
	if err := mgr.RegisterMember(u, "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := mgr.Login("U1", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.Name != "Rex" || got.Role != RoleMember {
		t.Fatalf("wrong user: %+v", got)
	}

	if _, err := mgr.Login("U1", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if _, err := mgr.Login("ghost", "s3cret"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if err := mgr.RegisterMember(u, ""); err == nil {
		t.Fatalf("empty password should fail")
	}
}

func TestResetPassword(t *testing.T) {
	mgr := newManager(t)

	u := &User{UserID: "U1", Name: "Rex", MemberID: "M1"}
	if err := mgr.RegisterMember(u, "old"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mgr.ResetPassword("U1", "new"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := mgr.Login("U1", "old"); err == nil {
		t.Fatalf("old password should no longer work")
	}
	if _, err := mgr.Login("U1", "new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if err := mgr.ResetPassword("ghost", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestManagerBorrowUsesConfiguredPeriod(t *testing.T) {
	mgr := newManager(t)

	if err := mgr.RegisterMember(&User{UserID: "U1", Name: "Rex", MemberID: "M1"}, "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := mgr.AddBookItem(&BookItem{Barcode: "X1", Title: "Dune"}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	loan, err := mgr.BorrowBook("U1", "X1")
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if got := loan.ReturnDate.Sub(loan.BorrowDate); got != 14*24*time.Hour {
		t.Fatalf("loan period: want 14 days, got %v", got)
	}
}

func TestManagerFineUsesConfiguredRate(t *testing.T) {
	mgr := newManager(t)

	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	loan := &Loan{ReturnDate: due}
	if fine := mgr.Fine(loan, due.Add(3*24*time.Hour)); fine != 600 {
		t.Fatalf("want 600, got %d", fine)
	}
}

func TestConfigDefaultsAndOverrides(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LoanPeriodDays != 14 || cfg.FineRatePerDay != 200 || cfg.DBPath != "library.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("LIBRARY_LOAN_DAYS", "7")
	t.Setenv("LIBRARY_FINE_RATE", "50")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LoanPeriodDays != 7 || cfg.FineRatePerDay != 50 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.LoanPeriod() != 7*24*time.Hour {
		t.Fatalf("loan period: %v", cfg.LoanPeriod())
	}
}
