package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/stretchr/testify/require"
)

// fakeHasher marks values instead of running bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) IsHash(value string) bool             { return strings.HasPrefix(value, "hashed:") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestResolver returns a resolver over sqlmock with the default collection names.
func newTestResolver(t *testing.T) (*CollectionResolver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	resolver, err := NewCollectionResolver(db, map[string]string{
		config.UsersCollection: "users",
		config.TasksCollection: "tasks",
	}, discardLogger())
	require.NoError(t, err)
	return resolver, mock
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// jsonDoc matches a JSON document argument by decoding it and running check.
type jsonDoc struct {
	check func(doc map[string]any) bool
}

func (j jsonDoc) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return false
	}
	return j.check(doc)
}

func docRows(t *testing.T, docs ...any) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"data"})
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		rows.AddRow(data)
	}
	return rows
}
