package library

import "time"

// Role distinguishes the two user kinds. Filtering on users is always done
// through this tag, never by inspecting other fields.
type Role string

const (
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

// Book status values. A Book tracks catalog-level status independently of the
// per-copy status on BookItem; the two are not reconciled automatically.
const (
	BookAvailable = "available"
	BookReserved  = "reserved"
	BookLoaned    = "loaned"
)

// BookItem status values.
const (
	ItemAvailable = "available"
	ItemLoaned    = "loaned"
)

// User is a registered library user. Role selects the variant: a librarian
// carries EmployeeID, a member carries MemberID. UserID is immutable after
// registration.
type User struct {
	UserID  string `json:"user_id"`
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	EmployeeID string `json:"employee_id,omitempty"`
	MemberID   string `json:"member_id,omitempty"`

	PasswordHash string `json:"-"` // Don't serialize password hash
}

// IsLibrarian reports whether the user holds the librarian role.
func (u *User) IsLibrarian() bool { return u.Role == RoleLibrarian }

// Book represents a catalog title, not a physical copy.
type Book struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	ISBN      string `json:"isbn"`
	Status    string `json:"status"`
}

// Available reports whether the title can be reserved.
func (b *Book) Available() bool { return b.Status == BookAvailable }

// BookItem is a single physical, barcoded copy of a title, independently
// loanable. Title is a denormalized reference to the Book it belongs to.
// DueDate is set while the copy is out and zero otherwise.
type BookItem struct {
	Barcode  string    `json:"barcode"`
	Title    string    `json:"title"`
	DueDate  time.Time `json:"due_date,omitempty"`
	Location string    `json:"location"`
	Status   string    `json:"status"`
}

// Available reports whether the copy can be borrowed.
func (bi *BookItem) Available() bool { return bi.Status == ItemAvailable }

// Loan records one copy out on loan to one member. It references the copy by
// barcode and the member by user id rather than embedding them, so a loan
// survives reloads of the stored graph without aliasing. A Loan exists only
// while the copy is out; returning the copy deletes it.
type Loan struct {
	LoanID       int64     `json:"loan_id"`
	Barcode      string    `json:"barcode"`
	MemberUserID string    `json:"member_user_id"`
	BorrowDate   time.Time `json:"borrow_date"`
	ReturnDate   time.Time `json:"return_date"`
}

// OverdueDays returns the number of whole days the loan is past due at the
// given instant. Zero when the due date has not passed.
func (l *Loan) OverdueDays(at time.Time) int64 {
	if !at.After(l.ReturnDate) {
		return 0
	}
	return int64(at.Sub(l.ReturnDate).Hours() / 24)
}

// Fine returns the accumulated fine at the given instant, charged per whole
// overdue day. Pure; callable whether or not the loan is still open.
func (l *Loan) Fine(at time.Time, perDay int64) int64 {
	return l.OverdueDays(at) * perDay
}

// BookUpdate holds a partial update for a Book. Nil fields are left unchanged.
type BookUpdate struct {
	Title     *string
	Author    *string
	Publisher *string
	ISBN      *string
}
