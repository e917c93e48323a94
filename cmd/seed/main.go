package main

import (
	"fmt"
	"os"
	"strings"

	"lending-library/library"
)

// Seeds a fresh database with a small catalog, copies, and users so the
// interactive shell has something to work with.
func main() {
	cfg, err := library.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Clean up any existing database files.
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{cfg.DBPath, cfg.DBPath + "-shm", cfg.DBPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}

	manager, err := library.NewLibraryManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	books := []*library.Book{
		{BookID: "B1", Title: "1984", Author: "George Orwell", Publisher: "Secker & Warburg", ISBN: "978-0-452-28423-4"},
		{BookID: "B2", Title: "Animal Farm", Author: "George Orwell", Publisher: "Secker & Warburg", ISBN: "978-0-452-28424-1"},
		{BookID: "B3", Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton Books", ISBN: "978-0-441-17271-9"},
		{BookID: "B4", Title: "The Art of War", Author: "Sun Tzu", Publisher: "Various", ISBN: "978-1-59030-963-7"},
		{BookID: "B5", Title: "Romeo and Juliet", Author: "William Shakespeare", Publisher: "Various", ISBN: "978-0-7434-7711-6"},
	}

	copies := []*library.BookItem{
		{Barcode: "X1", Title: "1984", Location: "Shelf A1"},
		{Barcode: "X2", Title: "1984", Location: "Shelf A1"},
		{Barcode: "X3", Title: "Dune", Location: "Shelf B2"},
		{Title: "The Art of War", Location: "Shelf C3"}, // barcode generated
		{Barcode: "X5", Title: "Romeo and Juliet", Location: "Shelf D4"},
	}

	fmt.Println("Seeding catalog...")
	for _, b := range books {
		if err := manager.AddBook(b); err != nil {
			fmt.Printf("ERROR adding %s: %v\n", b.Title, err)
			continue
		}
		fmt.Printf("Added book %s: %s\n", b.BookID, b.Title)
	}
	for _, bi := range copies {
		if err := manager.AddBookItem(bi); err != nil {
			fmt.Printf("ERROR adding copy of %s: %v\n", bi.Title, err)
			continue
		}
		fmt.Printf("Added copy %s of %s\n", bi.Barcode, bi.Title)
	}

	fmt.Println("Seeding users...")
	librarian := &library.User{
		UserID: "U1", Name: "Ada Archivist", Email: "ada@example.org",
		Phone: "555-0100", Address: "1 Library Way", EmployeeID: "E1",
	}
	if err := manager.RegisterLibrarian(librarian, "changeme"); err != nil {
		fmt.Printf("ERROR registering librarian: %v\n", err)
	}
	member := &library.User{
		UserID: "U2", Name: "Rex Reader", Email: "rex@example.org",
		Phone: "555-0101", Address: "2 Book Street", MemberID: "M1",
	}
	if err := manager.RegisterMember(member, "changeme"); err != nil {
		fmt.Printf("ERROR registering member: %v\n", err)
	}

	fmt.Println("\nSeed complete!")
	all, err := manager.GetAllBooks()
	if err != nil {
		fmt.Printf("Error retrieving books: %v\n", err)
		return
	}
	fmt.Printf("%-8s %-30s %-25s\n", "ID", "Title", "Author")
	fmt.Println(strings.Repeat("-", 65))
	for _, b := range all {
		fmt.Printf("%-8s %-30s %-25s\n", b.BookID, b.Title, b.Author)
	}
}
