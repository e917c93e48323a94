package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, db *Database) {
	t.Helper()
	books := []*Book{
		{BookID: "B1", Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton Books"},
		{BookID: "B2", Title: "Dune Messiah", Author: "Frank Herbert", Publisher: "Putnam"},
		{BookID: "B3", Title: "dune", Author: "Someone Else", Publisher: "Putnam"},
	}
	for _, b := range books {
		require.NoError(t, db.AddBook(b))
	}
}

func TestSearchByTitleCaseInsensitiveExact(t *testing.T) {
	db := tempDB(t)
	seedCatalog(t, db)

	upper, err := db.SearchByTitle("Dune")
	require.NoError(t, err)
	lower, err := db.SearchByTitle("dune")
	require.NoError(t, err)

	// Case variations return identical results.
	require.Len(t, upper, 2)
	require.Len(t, lower, 2)
	for i := range upper {
		assert.Equal(t, upper[i].BookID, lower[i].BookID)
	}

	// Exact match only: a prefix is not a hit.
	partial, err := db.SearchByTitle("Dun")
	require.NoError(t, err)
	assert.Empty(t, partial)
}

func TestSearchByAuthorAndPublisher(t *testing.T) {
	db := tempDB(t)
	seedCatalog(t, db)

	byAuthor, err := db.SearchByAuthor("frank herbert")
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	// Insertion order, not relevance.
	assert.Equal(t, "B1", byAuthor[0].BookID)
	assert.Equal(t, "B2", byAuthor[1].BookID)

	byPublisher, err := db.SearchByPublisher("PUTNAM")
	require.NoError(t, err)
	require.Len(t, byPublisher, 2)
	assert.Equal(t, "B2", byPublisher[0].BookID)
	assert.Equal(t, "B3", byPublisher[1].BookID)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	db := tempDB(t)
	seedCatalog(t, db)

	books, err := db.SearchByTitle("A Memory Called Empire")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}
