package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"lending-library/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	root := &cobra.Command{
		Use:   "library",
		Short: "Interactive lending-library management shell",
		RunE:  runShell,
	}
	root.Flags().String("db", "", "path to the library database file (overrides LIBRARY_DB)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := library.LoadConfig()
	if err != nil {
		return err
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	manager, err := library.NewLibraryManager(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer manager.Close()

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Library Management System!")
	fmt.Println("Available commands:")
	fmt.Println("  Users:       register librarian, register member, login, list members, reset password")
	fmt.Println("  Catalog:     add book, remove book, update book, add copy, list books, list copies, search book")
	fmt.Println("  Circulation: borrow, return, reserve, cancel reservation, view loans")
	fmt.Println("  Oversight:   view members (librarian only)")
	fmt.Println("  System:      exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "register librarian":
			handleRegisterUser(scanner, manager, library.RoleLibrarian)
		case "register member":
			handleRegisterUser(scanner, manager, library.RoleMember)
		case "login":
			handleLogin(scanner, manager)
		case "reset password":
			handleResetPassword(scanner, manager)
		case "add book":
			handleAddBook(scanner, manager)
		case "remove book":
			handleRemoveBook(scanner, manager)
		case "update book":
			handleUpdateBook(scanner, manager)
		case "add copy":
			handleAddCopy(scanner, manager)
		case "list books":
			handleListBooks(manager)
		case "list copies":
			handleListCopies(manager)
		case "list members":
			handleListMembers(manager)
		case "search book":
			handleSearchBooks(scanner, manager)
		case "borrow":
			handleBorrow(scanner, manager)
		case "return":
			handleReturn(scanner, manager)
		case "reserve":
			handleReserve(scanner, manager)
		case "cancel reservation":
			handleCancelReservation(scanner, manager)
		case "view loans":
			handleViewLoans(scanner, manager)
		case "view members":
			handleViewMembers(scanner, manager)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
	return nil
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// authenticateUser prompts for and verifies a user's credentials.
func authenticateUser(mgr *library.LibraryManager, userID string) (*library.User, error) {
	password, err := readPassword("Enter your password: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return mgr.Login(userID, password)
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func handleRegisterUser(sc *bufio.Scanner, mgr *library.LibraryManager, role library.Role) {
	u := &library.User{}
	var ok bool
	if u.UserID, ok = prompt(sc, "User ID: "); !ok {
		return
	}
	if u.Name, ok = prompt(sc, "Name: "); !ok {
		return
	}
	if u.Email, ok = prompt(sc, "Email: "); !ok {
		return
	}
	if u.Phone, ok = prompt(sc, "Phone: "); !ok {
		return
	}
	if u.Address, ok = prompt(sc, "Address: "); !ok {
		return
	}

	password, err := readPassword(fmt.Sprintf("Enter password for %s: ", u.Name))
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	switch role {
	case library.RoleLibrarian:
		if u.EmployeeID, ok = prompt(sc, "Employee ID: "); !ok {
			return
		}
		err = mgr.RegisterLibrarian(u, password)
	case library.RoleMember:
		if u.MemberID, ok = prompt(sc, "Member ID: "); !ok {
			return
		}
		err = mgr.RegisterMember(u, password)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Registered %s %s.\n", role, u.Name)
}

func handleLogin(sc *bufio.Scanner, mgr *library.LibraryManager) {
	userID, ok := prompt(sc, "User ID: ")
	if !ok {
		return
	}
	user, err := authenticateUser(mgr, userID)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	fmt.Printf("Welcome, %s!\n", user.Name)
}

func handleResetPassword(sc *bufio.Scanner, mgr *library.LibraryManager) {
	userID, ok := prompt(sc, "User ID: ")
	if !ok {
		return
	}
	user, err := mgr.GetUser(userID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	newPassword, err := readPassword(fmt.Sprintf("Enter new password for %s: ", user.Name))
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if err := mgr.ResetPassword(userID, newPassword); err != nil {
		fmt.Printf("Error resetting password: %v\n", err)
		return
	}
	fmt.Printf("Password successfully reset for %s\n", user.Name)
}

func handleAddBook(sc *bufio.Scanner, mgr *library.LibraryManager) {
	b := &library.Book{}
	var ok bool
	if b.BookID, ok = prompt(sc, "Book ID: "); !ok {
		return
	}
	if b.Title, ok = prompt(sc, "Title: "); !ok {
		return
	}
	if b.Author, ok = prompt(sc, "Author: "); !ok {
		return
	}
	if b.Publisher, ok = prompt(sc, "Publisher: "); !ok {
		return
	}
	if b.ISBN, ok = prompt(sc, "ISBN: "); !ok {
		return
	}

	if err := mgr.AddBook(b); err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Book '%s' added.\n", b.Title)
}

func handleRemoveBook(sc *bufio.Scanner, mgr *library.LibraryManager) {
	bookID, ok := prompt(sc, "Book ID: ")
	if !ok {
		return
	}
	book, err := mgr.GetBook(bookID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if err := mgr.RemoveBook(bookID); err != nil {
		fmt.Printf("Error removing book: %v\n", err)
		return
	}
	fmt.Printf("Book '%s' removed.\n", book.Title)
}

func handleUpdateBook(sc *bufio.Scanner, mgr *library.LibraryManager) {
	bookID, ok := prompt(sc, "Book ID: ")
	if !ok {
		return
	}

	fmt.Println("Leave a field blank to keep its current value.")
	var upd library.BookUpdate
	if v, ok := prompt(sc, "Title: "); !ok {
		return
	} else if v != "" {
		upd.Title = &v
	}
	if v, ok := prompt(sc, "Author: "); !ok {
		return
	} else if v != "" {
		upd.Author = &v
	}
	if v, ok := prompt(sc, "Publisher: "); !ok {
		return
	} else if v != "" {
		upd.Publisher = &v
	}
	if v, ok := prompt(sc, "ISBN: "); !ok {
		return
	} else if v != "" {
		upd.ISBN = &v
	}

	if err := mgr.UpdateBook(bookID, upd); err != nil {
		fmt.Printf("Error updating book: %v\n", err)
		return
	}
	book, _ := mgr.GetBook(bookID)
	fmt.Printf("Book '%s' updated.\n", book.Title)
}

func handleAddCopy(sc *bufio.Scanner, mgr *library.LibraryManager) {
	bi := &library.BookItem{}
	var ok bool
	if bi.Title, ok = prompt(sc, "Book title: "); !ok {
		return
	}
	if bi.Barcode, ok = prompt(sc, "Barcode (blank to generate): "); !ok {
		return
	}
	if bi.Location, ok = prompt(sc, "Location: "); !ok {
		return
	}

	if err := mgr.AddBookItem(bi); err != nil {
		fmt.Printf("Error adding copy: %v\n", err)
		return
	}
	fmt.Printf("Copy of '%s' added with barcode %s.\n", bi.Title, bi.Barcode)
}

func handleListBooks(mgr *library.LibraryManager) {
	books, err := mgr.GetAllBooks()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}

	fmt.Printf("%-8s %-30s %-25s %-20s %-10s\n", "ID", "Title", "Author", "Publisher", "Status")
	fmt.Println(strings.Repeat("-", 100))
	for _, b := range books {
		fmt.Printf("%-8s %-30s %-25s %-20s %-10s\n",
			b.BookID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Publisher, 20),
			b.Status)
	}
}

func handleListCopies(mgr *library.LibraryManager) {
	items, err := mgr.GetAllItems()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("No copies in library.")
		return
	}

	fmt.Printf("%-38s %-30s %-15s %-10s %s\n", "Barcode", "Title", "Location", "Status", "Due")
	fmt.Println(strings.Repeat("-", 105))
	for _, bi := range items {
		fmt.Println(library.PrettyItem(bi))
	}
}

func handleListMembers(mgr *library.LibraryManager) {
	members, err := mgr.GetMembers()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(members) == 0 {
		fmt.Println("No members registered.")
		return
	}

	fmt.Printf("%-10s %-10s %-30s %-25s\n", "User ID", "Member ID", "Name", "Email")
	fmt.Println(strings.Repeat("-", 80))
	for _, m := range members {
		fmt.Printf("%-10s %-10s %-30s %-25s\n", m.UserID, m.MemberID, m.Name, truncateString(m.Email, 25))
	}
}

func handleSearchBooks(sc *bufio.Scanner, mgr *library.LibraryManager) {
	field, ok := prompt(sc, "Search by (title/author/publisher): ")
	if !ok {
		return
	}
	query, ok := prompt(sc, "Query: ")
	if !ok {
		return
	}

	var (
		books []*library.Book
		err   error
	)
	switch strings.ToLower(field) {
	case "title", "":
		books, err = mgr.SearchByTitle(query)
	case "author":
		books, err = mgr.SearchByAuthor(query)
	case "publisher":
		books, err = mgr.SearchByPublisher(query)
	default:
		fmt.Printf("Unknown search field: %s\n", field)
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if len(books) == 0 {
		fmt.Printf("No books found matching '%s'.\n", query)
		return
	}
	for _, b := range books {
		fmt.Println(library.PrettyBook(b))
	}
}

func handleBorrow(sc *bufio.Scanner, mgr *library.LibraryManager) {
	memberID, ok := prompt(sc, "Your user ID: ")
	if !ok {
		return
	}
	member, err := authenticateUser(mgr, memberID)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	barcode, ok := prompt(sc, "Book barcode to borrow: ")
	if !ok {
		return
	}

	loan, err := mgr.BorrowBook(memberID, barcode)
	if err != nil {
		fmt.Printf("Error borrowing book: %v\n", err)
		return
	}
	item, _ := mgr.GetItem(barcode)
	fmt.Printf("Book '%s' borrowed by %s. Due %s.\n",
		item.Title, member.Name, loan.ReturnDate.Format("2006-01-02"))
}

func handleReturn(sc *bufio.Scanner, mgr *library.LibraryManager) {
	memberID, ok := prompt(sc, "Your user ID: ")
	if !ok {
		return
	}
	member, err := authenticateUser(mgr, memberID)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	barcode, ok := prompt(sc, "Book barcode to return: ")
	if !ok {
		return
	}

	// Show the fine before closing the loan, while it still exists.
	loans, _ := mgr.ViewLoans(memberID)
	var fine int64
	for _, l := range loans {
		if l.Barcode == barcode {
			fine = mgr.Fine(l, time.Now())
		}
	}

	if err := mgr.ReturnBook(memberID, barcode); err != nil {
		fmt.Printf("Error returning book: %v\n", err)
		return
	}
	item, _ := mgr.GetItem(barcode)
	fmt.Printf("Book '%s' returned by %s.\n", item.Title, member.Name)
	if fine > 0 {
		fmt.Printf("Overdue fine owed: %d\n", fine)
	}
}

func handleReserve(sc *bufio.Scanner, mgr *library.LibraryManager) {
	bookID, ok := prompt(sc, "Book ID to reserve: ")
	if !ok {
		return
	}
	if err := mgr.ReserveBook(bookID); err != nil {
		fmt.Printf("Error reserving book: %v\n", err)
		return
	}
	book, _ := mgr.GetBook(bookID)
	fmt.Printf("Book '%s' reserved.\n", book.Title)
}

func handleCancelReservation(sc *bufio.Scanner, mgr *library.LibraryManager) {
	bookID, ok := prompt(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := mgr.CancelReservation(bookID); err != nil {
		fmt.Printf("Error cancelling reservation: %v\n", err)
		return
	}
	book, _ := mgr.GetBook(bookID)
	fmt.Printf("Reservation for '%s' cancelled.\n", book.Title)
}

func handleViewLoans(sc *bufio.Scanner, mgr *library.LibraryManager) {
	memberID, ok := prompt(sc, "Your user ID: ")
	if !ok {
		return
	}
	printMemberLoans(mgr, memberID)
}

func handleViewMembers(sc *bufio.Scanner, mgr *library.LibraryManager) {
	librarianID, ok := prompt(sc, "Your librarian user ID: ")
	if !ok {
		return
	}
	librarian, err := authenticateUser(mgr, librarianID)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return
	}
	if !librarian.IsLibrarian() {
		fmt.Println("Only librarians may view members.")
		return
	}

	members, err := mgr.GetMembers()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(members) == 0 {
		fmt.Println("No members found.")
		return
	}

	fmt.Println("\nList of all Members:")
	for _, m := range members {
		fmt.Printf("%s (ID: %s, Member ID: %s)\n", m.Name, m.UserID, m.MemberID)
		printMemberLoans(mgr, m.UserID)
	}
}

func printMemberLoans(mgr *library.LibraryManager, memberID string) {
	loans, err := mgr.ViewLoans(memberID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Println("No active loans.")
		return
	}
	now := time.Now()
	for _, l := range loans {
		line := fmt.Sprintf("Loan %d: copy %s, borrowed %s, due %s",
			l.LoanID, l.Barcode, l.BorrowDate.Format("2006-01-02"), l.ReturnDate.Format("2006-01-02"))
		if fine := mgr.Fine(l, now); fine > 0 {
			line += fmt.Sprintf(" (overdue, fine %d)", fine)
		}
		fmt.Println(line)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
