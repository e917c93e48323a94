package library

import (
	"fmt"
	"time"
)

// LibraryManager is a thin façade over the Database, keeping CLI code simple.
// It injects configuration (loan period, fine rate) into the domain
// operations; all validation of raw text input stays with the caller.
type LibraryManager struct {
	db  *Database
	cfg Config
}

// NewLibraryManager opens (or creates) the SQLite database at cfg.DBPath.
func NewLibraryManager(cfg Config) (*LibraryManager, error) {
	db, err := NewDatabase(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &LibraryManager{db: db, cfg: cfg}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// ------------------ Registration ------------------

// RegisterLibrarian registers a librarian with a hashed password.
func (lm *LibraryManager) RegisterLibrarian(u *User, password string) error {
	u.Role = RoleLibrarian
	return lm.register(u, password)
}

// RegisterMember registers a member with a hashed password.
func (lm *LibraryManager) RegisterMember(u *User, password string) error {
	u.Role = RoleMember
	return lm.register(u, password)
}

func (lm *LibraryManager) register(u *User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return lm.db.AddUser(u)
}

// Login authenticates a user by id and password.
func (lm *LibraryManager) Login(userID, password string) (*User, error) {
	return lm.db.Authenticate(userID, password)
}

// ResetPassword replaces a user's password.
func (lm *LibraryManager) ResetPassword(userID, newPassword string) error {
	return lm.db.ResetPassword(userID, newPassword)
}

// ------------------ Catalog helpers ------------------

func (lm *LibraryManager) AddBook(b *Book) error              { return lm.db.AddBook(b) }
func (lm *LibraryManager) RemoveBook(bookID string) error     { return lm.db.RemoveBook(bookID) }
func (lm *LibraryManager) GetBook(bookID string) (*Book, error) {
	return lm.db.FindBookByID(bookID)
}
func (lm *LibraryManager) GetAllBooks() ([]*Book, error) { return lm.db.AllBooks() }

func (lm *LibraryManager) UpdateBook(bookID string, upd BookUpdate) error {
	return lm.db.UpdateBook(bookID, upd)
}

func (lm *LibraryManager) AddBookItem(bi *BookItem) error { return lm.db.AddBookItem(bi) }
func (lm *LibraryManager) GetItem(barcode string) (*BookItem, error) {
	return lm.db.FindItemByBarcode(barcode)
}
func (lm *LibraryManager) GetAllItems() ([]*BookItem, error) { return lm.db.AllItems() }

// ------------------ User helpers ------------------

func (lm *LibraryManager) GetUser(userID string) (*User, error) { return lm.db.FindUserByID(userID) }
func (lm *LibraryManager) GetAllUsers() ([]*User, error)        { return lm.db.AllUsers() }
func (lm *LibraryManager) GetMembers() ([]*User, error)         { return lm.db.Members() }

// ------------------ Search ------------------

func (lm *LibraryManager) SearchByTitle(text string) ([]*Book, error) {
	return lm.db.SearchByTitle(text)
}

func (lm *LibraryManager) SearchByAuthor(text string) ([]*Book, error) {
	return lm.db.SearchByAuthor(text)
}

func (lm *LibraryManager) SearchByPublisher(text string) ([]*Book, error) {
	return lm.db.SearchByPublisher(text)
}

// ------------------ Circulation ------------------

// BorrowBook loans a copy to a member for the configured loan period.
func (lm *LibraryManager) BorrowBook(memberUserID, barcode string) (*Loan, error) {
	return lm.db.Borrow(memberUserID, barcode, lm.cfg.LoanPeriod())
}

// ReturnBook closes the member's loan on a copy.
func (lm *LibraryManager) ReturnBook(memberUserID, barcode string) error {
	return lm.db.Return(memberUserID, barcode)
}

func (lm *LibraryManager) ReserveBook(bookID string) error { return lm.db.Reserve(bookID) }

func (lm *LibraryManager) CancelReservation(bookID string) error {
	return lm.db.CancelReservation(bookID)
}

// ViewLoans returns the member's open loans.
func (lm *LibraryManager) ViewLoans(memberUserID string) ([]*Loan, error) {
	return lm.db.MemberLoans(memberUserID)
}

// GetAllLoans returns every open loan.
func (lm *LibraryManager) GetAllLoans() ([]*Loan, error) { return lm.db.AllLoans() }

// Fine returns the loan's accumulated fine at the given instant, using the
// configured per-day rate.
func (lm *LibraryManager) Fine(l *Loan, at time.Time) int64 {
	return l.Fine(at, lm.cfg.FineRatePerDay)
}

// ------------------ Utilities ------------------

// PrettyBook formats a book for lists.
func PrettyBook(b *Book) string {
	return fmt.Sprintf("%-8s %-30s %-25s %-20s %-10s", b.BookID, b.Title, b.Author, b.Publisher, b.Status)
}

// PrettyItem formats a copy for lists.
func PrettyItem(bi *BookItem) string {
	due := "-"
	if !bi.DueDate.IsZero() {
		due = bi.DueDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%-38s %-30s %-15s %-10s %s", bi.Barcode, bi.Title, bi.Location, bi.Status, due)
}
