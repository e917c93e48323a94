package library

// Catalog queries. Matching is case-insensitive and exact: the whole field
// must equal the query text. Substring and relevance matching are out of
// scope. Results come back in catalog insertion order and a miss yields an
// empty slice, never an error.

// SearchByTitle returns the titles whose title equals text.
func (d *Database) SearchByTitle(text string) ([]*Book, error) {
	return d.searchBooks("title", text)
}

// SearchByAuthor returns the titles whose author equals text.
func (d *Database) SearchByAuthor(text string) ([]*Book, error) {
	return d.searchBooks("author", text)
}

// SearchByPublisher returns the titles whose publisher equals text.
func (d *Database) SearchByPublisher(text string) ([]*Book, error) {
	return d.searchBooks("publisher", text)
}

func (d *Database) searchBooks(field, text string) ([]*Book, error) {
	// field is one of the three fixed column names above, never user input.
	rows, err := d.db.Query(
		`SELECT book_id,title,author,publisher,isbn,status FROM books
         WHERE lower(`+field+`) = lower(?) ORDER BY rowid`, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.Status); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}
