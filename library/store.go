package library

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Library Store operations. Typed tables per entity kind make identifier
// uniqueness a structural invariant: a colliding insert fails on the primary
// key and surfaces as ErrAlreadyExists.

// AddUser registers a user. The role tag must carry its variant identifier:
// employee id for librarians, member id for members.
func (d *Database) AddUser(u *User) error {
	switch u.Role {
	case RoleLibrarian:
		if u.EmployeeID == "" {
			return fmt.Errorf("librarian %s: employee id required", u.UserID)
		}
	case RoleMember:
		if u.MemberID == "" {
			return fmt.Errorf("member %s: member id required", u.UserID)
		}
	default:
		return fmt.Errorf("unknown role %q", u.Role)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.addUserStmt.Exec(u.UserID, string(u.Role), u.Name, u.Email, u.Phone, u.Address,
		u.EmployeeID, u.MemberID, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.UserID, ErrAlreadyExists)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// AddBook adds a catalog title. A blank status defaults to available.
func (d *Database) AddBook(b *Book) error {
	if b.Status == "" {
		b.Status = BookAvailable
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.addBookStmt.Exec(b.BookID, b.Title, b.Author, b.Publisher, b.ISBN, b.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("book %s: %w", b.BookID, ErrAlreadyExists)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// RemoveBook deletes a catalog title.
func (d *Database) RemoveBook(bookID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`DELETE FROM books WHERE book_id=?`, bookID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	return nil
}

// UpdateBook applies a partial field update to a title. Nil fields keep their
// stored value.
func (d *Database) UpdateBook(bookID string, upd BookUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.Exec(`UPDATE books SET
            title     = COALESCE(?, title),
            author    = COALESCE(?, author),
            publisher = COALESCE(?, publisher),
            isbn      = COALESCE(?, isbn)
        WHERE book_id=?`,
		upd.Title, upd.Author, upd.Publisher, upd.ISBN, bookID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if n == 0 {
		return fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	return nil
}

// AddBookItem registers a physical copy. A blank barcode gets a generated one,
// returned through the item.
func (d *Database) AddBookItem(bi *BookItem) error {
	if bi.Barcode == "" {
		bi.Barcode = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = ItemAvailable
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.addItemStmt.Exec(bi.Barcode, bi.Title, bi.Location, bi.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("book item %s: %w", bi.Barcode, ErrAlreadyExists)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// FindUserByID fetches a single user.
func (d *Database) FindUserByID(userID string) (*User, error) {
	var u User
	var role string
	err := d.db.QueryRow(
		`SELECT user_id,role,name,email,phone,address,employee_id,member_id,password_hash
         FROM users WHERE user_id=?`, userID).
		Scan(&u.UserID, &role, &u.Name, &u.Email, &u.Phone, &u.Address,
			&u.EmployeeID, &u.MemberID, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}

// FindBookByID fetches a single catalog title.
func (d *Database) FindBookByID(bookID string) (*Book, error) {
	var b Book
	err := d.db.QueryRow(
		`SELECT book_id,title,author,publisher,isbn,status FROM books WHERE book_id=?`, bookID).
		Scan(&b.BookID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.Status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindItemByBarcode fetches a single copy.
func (d *Database) FindItemByBarcode(barcode string) (*BookItem, error) {
	var bi BookItem
	var due sql.NullTime
	err := d.db.QueryRow(
		`SELECT barcode,title,location,status,due_date FROM book_items WHERE barcode=?`, barcode).
		Scan(&bi.Barcode, &bi.Title, &bi.Location, &bi.Status, &due)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book item %s: %w", barcode, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if due.Valid {
		bi.DueDate = due.Time
	}
	return &bi, nil
}

// AllBooks returns every catalog title in insertion order.
func (d *Database) AllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT book_id,title,author,publisher,isbn,status FROM books ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.Status); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// AllItems returns every copy in insertion order.
func (d *Database) AllItems() ([]*BookItem, error) {
	rows, err := d.db.Query(`SELECT barcode,title,location,status,due_date FROM book_items ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*BookItem
	for rows.Next() {
		var bi BookItem
		var due sql.NullTime
		if err := rows.Scan(&bi.Barcode, &bi.Title, &bi.Location, &bi.Status, &due); err != nil {
			return nil, err
		}
		if due.Valid {
			bi.DueDate = due.Time
		}
		items = append(items, &bi)
	}
	return items, rows.Err()
}

// AllUsers returns every user in registration order.
func (d *Database) AllUsers() ([]*User, error) {
	return d.queryUsers(`SELECT user_id,role,name,email,phone,address,employee_id,member_id,password_hash
        FROM users ORDER BY rowid`)
}

// Members returns users holding the member role, in registration order.
func (d *Database) Members() ([]*User, error) {
	return d.queryUsers(`SELECT user_id,role,name,email,phone,address,employee_id,member_id,password_hash
        FROM users WHERE role='member' ORDER BY rowid`)
}

func (d *Database) queryUsers(query string) ([]*User, error) {
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.UserID, &role, &u.Name, &u.Email, &u.Phone, &u.Address,
			&u.EmployeeID, &u.MemberID, &u.PasswordHash); err != nil {
			return nil, err
		}
		u.Role = Role(role)
		users = append(users, &u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
