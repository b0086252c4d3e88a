// Package testdb hands out a seeded handle to the live test database.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/Astemirdum/bookstore-service/bookstore/internal/model"
	"github.com/Astemirdum/bookstore-service/bookstore/migrations"
	"github.com/Astemirdum/bookstore-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
)

const (
	envPrefix = "test"
	// serializes test packages sharing the books table
	lockKey = 111000333
)

var (
	Seed = model.Book{
		Isbn:      "111000333",
		AmazonURL: "amazon.com",
		Author:    "Daffy Duck",
		Language:  "English",
		Pages:     123,
		Publisher: "Looney Tunes",
		Title:     "Space Jam",
		Year:      1998,
	}
	Other = model.Book{
		Isbn:      "5125734717",
		AmazonURL: "amazonprime.com",
		Author:    "Bugs Bunny",
		Language:  "spanish",
		Pages:     100,
		Publisher: "Warner Bros Ent",
		Title:     "The Bugz",
		Year:      2000,
	}
)

// New connects to the database described by TEST_DB_* variables and seeds Seed.
// Fixture rows are deleted and the handle closed when the test finishes.
// The test is skipped when TEST_DB_HOST is unset.
func New(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	var cfg postgres.DB
	require.NoError(t, envconfig.Process(envPrefix, &cfg))

	ctx := context.Background()
	db, err := postgres.NewPostgresDB(ctx, &cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		conn.Close()
	})

	require.NoError(t, postgres.Migrate(db, migrations.MigrationFiles))

	clean := func() {
		_, err := db.ExecContext(context.Background(),
			`DELETE FROM books WHERE isbn IN ($1, $2)`, Seed.Isbn, Other.Isbn)
		require.NoError(t, err)
	}
	clean()
	t.Cleanup(clean)

	_, err = db.NamedExecContext(ctx, `
INSERT INTO books (isbn, amazon_url, author, language, pages, publisher, title, year)
VALUES (:isbn, :amazon_url, :author, :language, :pages, :publisher, :title, :year)`, Seed)
	require.NoError(t, err)
	return db
}
