package library

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAndFindUser(t *testing.T) {
	db := tempDB(t)

	librarian := &User{
		UserID: "U1", Role: RoleLibrarian, Name: "Ada", Email: "ada@example.org",
		Phone: "555-0100", Address: "1 Library Way", EmployeeID: "E1",
	}
	if err := db.AddUser(librarian); err != nil {
		t.Fatalf("add librarian: %v", err)
	}

	member := &User{
		UserID: "U2", Role: RoleMember, Name: "Rex", MemberID: "M1",
	}
	if err := db.AddUser(member); err != nil {
		t.Fatalf("add member: %v", err)
	}

	got, err := db.FindUserByID("U1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.IsLibrarian() || got.EmployeeID != "E1" || got.Name != "Ada" {
		t.Fatalf("librarian fields wrong: %+v", got)
	}

	if _, err := db.FindUserByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUserIDUniqueness(t *testing.T) {
	db := tempDB(t)

	u := &User{UserID: "U1", Role: RoleMember, Name: "Rex", MemberID: "M1"}
	if err := db.AddUser(u); err != nil {
		t.Fatalf("add: %v", err)
	}
	dup := &User{UserID: "U1", Role: RoleMember, Name: "Other", MemberID: "M2"}
	if err := db.AddUser(dup); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}

	users, err := db.AllUsers()
	if err != nil {
		t.Fatalf("all users: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Rex" {
		t.Fatalf("state changed by failed add: %+v", users)
	}
}

func TestUserRoleValidation(t *testing.T) {
	db := tempDB(t)

	if err := db.AddUser(&User{UserID: "U1", Role: RoleLibrarian, Name: "NoEmp"}); err == nil {
		t.Fatalf("librarian without employee id should fail")
	}
	if err := db.AddUser(&User{UserID: "U2", Role: RoleMember, Name: "NoMem"}); err == nil {
		t.Fatalf("member without member id should fail")
	}
	if err := db.AddUser(&User{UserID: "U3", Role: "janitor", Name: "Bad"}); err == nil {
		t.Fatalf("unknown role should fail")
	}
}

func TestAddRemoveBook(t *testing.T) {
	db := tempDB(t)

	b := &Book{BookID: "B1", Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton Books"}
	if err := db.AddBook(b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if b.Status != BookAvailable {
		t.Fatalf("status should default to available, got %q", b.Status)
	}

	if err := db.AddBook(&Book{BookID: "B1", Title: "Dupe"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}

	if err := db.RemoveBook("B1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := db.RemoveBook("B1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateBook(t *testing.T) {
	db := tempDB(t)

	if err := db.AddBook(&Book{BookID: "B1", Title: "Dnue", Author: "Frank Herbert"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	title := "Dune"
	publisher := "Chilton Books"
	if err := db.UpdateBook("B1", BookUpdate{Title: &title, Publisher: &publisher}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := db.FindBookByID("B1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "Dune" || got.Publisher != "Chilton Books" || got.Author != "Frank Herbert" {
		t.Fatalf("partial update wrong: %+v", got)
	}

	if err := db.UpdateBook("missing", BookUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAddBookItemGeneratesBarcode(t *testing.T) {
	db := tempDB(t)

	bi := &BookItem{Title: "Dune", Location: "Shelf B2"}
	if err := db.AddBookItem(bi); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if bi.Barcode == "" {
		t.Fatalf("barcode should be generated")
	}
	if bi.Status != ItemAvailable {
		t.Fatalf("status should default to available, got %q", bi.Status)
	}

	got, err := db.FindItemByBarcode(bi.Barcode)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.Available() || !got.DueDate.IsZero() {
		t.Fatalf("fresh copy should be available with no due date: %+v", got)
	}

	if err := db.AddBookItem(&BookItem{Barcode: bi.Barcode, Title: "Dune"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestListingInsertionOrder(t *testing.T) {
	db := tempDB(t)

	for _, b := range []*Book{
		{BookID: "B3", Title: "Gamma"},
		{BookID: "B1", Title: "Alpha"},
		{BookID: "B2", Title: "Beta"},
	} {
		if err := db.AddBook(b); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	books, err := db.AllBooks()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	want := []string{"B3", "B1", "B2"}
	if len(books) != len(want) {
		t.Fatalf("want %d books, got %d", len(want), len(books))
	}
	for i, id := range want {
		if books[i].BookID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, books[i].BookID)
		}
	}
}

// TestDurability reopens the database file and expects all committed state,
// including an open loan, to survive.
func TestDurability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	if err := db.AddUser(&User{UserID: "U1", Role: RoleMember, Name: "Rex", MemberID: "M1"}); err != nil {
		t.Fatalf("add user: %v", err)
	}
	if err := db.AddBookItem(&BookItem{Barcode: "X1", Title: "Dune"}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	loan, err := db.Borrow("U1", "X1", 14*24*time.Hour)
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	item, err := reopened.FindItemByBarcode("X1")
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if item.Status != ItemLoaned {
		t.Fatalf("loaned status lost on reload: %+v", item)
	}

	loans, err := reopened.MemberLoans("U1")
	if err != nil {
		t.Fatalf("loans: %v", err)
	}
	if len(loans) != 1 || loans[0].LoanID != loan.LoanID {
		t.Fatalf("loan lost on reload: %+v", loans)
	}
}
