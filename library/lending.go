package library

import (
	"database/sql"
	"fmt"
	"time"
)

// Lending engine. Each operation is one unit of work: the precondition is
// checked and the field writes applied inside a single transaction, so a
// failed commit leaves nothing applied and a signalled error means no
// mutation happened at all.

// Borrow loans the copy with the given barcode to the member for the given
// period. The copy must currently be available.
func (d *Database) Borrow(memberUserID, barcode string, period time.Duration) (*Loan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var role string
	err = tx.QueryRow(`SELECT role FROM users WHERE user_id=?`, memberUserID).Scan(&role)
	if err == sql.ErrNoRows || (err == nil && Role(role) != RoleMember) {
		return nil, fmt.Errorf("member %s: %w", memberUserID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var status string
	err = tx.QueryRow(`SELECT status FROM book_items WHERE barcode=?`, barcode).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book item %s: %w", barcode, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if status != ItemAvailable {
		return nil, fmt.Errorf("book item %s: %w", barcode, ErrNotAvailable)
	}

	now := d.now()
	due := now.Add(period)

	res, err := tx.Exec(`INSERT INTO loans(barcode,member_user_id,borrow_date,return_date) VALUES(?,?,?,?)`,
		barcode, memberUserID, now, due)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	loanID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, err := tx.Exec(`UPDATE book_items SET status=?, due_date=? WHERE barcode=?`,
		ItemLoaned, due, barcode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := commit(tx); err != nil {
		return nil, err
	}

	return &Loan{
		LoanID:       loanID,
		Barcode:      barcode,
		MemberUserID: memberUserID,
		BorrowDate:   now,
		ReturnDate:   due,
	}, nil
}

// Return closes the loan matching both the copy and the member. A loan cannot
// be returned by a different member than the borrower. The loan record is
// deleted; no history is retained.
func (d *Database) Return(memberUserID, barcode string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var loanID int64
	err = tx.QueryRow(`SELECT loan_id FROM loans WHERE barcode=? AND member_user_id=?`,
		barcode, memberUserID).Scan(&loanID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("book item %s, member %s: %w", barcode, memberUserID, ErrNoActiveLoan)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM loans WHERE loan_id=?`, loanID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, err := tx.Exec(`UPDATE book_items SET status=?, due_date=NULL WHERE barcode=?`,
		ItemAvailable, barcode); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return commit(tx)
}

// Reserve marks an available title as reserved. The reservation is a bare
// status flag: it carries no member and never expires.
func (d *Database) Reserve(bookID string) error {
	return d.transitionBook(bookID, BookAvailable, BookReserved)
}

// CancelReservation makes a reserved title available again.
func (d *Database) CancelReservation(bookID string) error {
	return d.transitionBook(bookID, BookReserved, BookAvailable)
}

func (d *Database) transitionBook(bookID, from, to string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow(`SELECT status FROM books WHERE book_id=?`, bookID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if status != from {
		return fmt.Errorf("book %s is %s: %w", bookID, status, ErrNotReservable)
	}

	if _, err := tx.Exec(`UPDATE books SET status=? WHERE book_id=?`, to, bookID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return commit(tx)
}

// MemberLoans returns the member's open loans in loan-id order.
func (d *Database) MemberLoans(memberUserID string) ([]*Loan, error) {
	return d.queryLoans(`SELECT loan_id,barcode,member_user_id,borrow_date,return_date
        FROM loans WHERE member_user_id=? ORDER BY loan_id`, memberUserID)
}

// AllLoans returns every open loan in loan-id order.
func (d *Database) AllLoans() ([]*Loan, error) {
	return d.queryLoans(`SELECT loan_id,barcode,member_user_id,borrow_date,return_date
        FROM loans ORDER BY loan_id`)
}

func (d *Database) queryLoans(query string, args ...any) ([]*Loan, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.LoanID, &l.Barcode, &l.MemberUserID, &l.BorrowDate, &l.ReturnDate); err != nil {
			return nil, err
		}
		loans = append(loans, &l)
	}
	return loans, rows.Err()
}
