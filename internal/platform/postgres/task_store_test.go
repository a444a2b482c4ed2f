package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertTaskSQL = regexp.QuoteMeta(`INSERT INTO "tasks" (id, data) VALUES ($1, $2::jsonb)`)
	selectTaskSQL = regexp.QuoteMeta(`SELECT data FROM "tasks" WHERE id = $1`)
	updateTaskSQL = regexp.QuoteMeta(`UPDATE "tasks"`)
	deleteTaskSQL = regexp.QuoteMeta(`DELETE FROM "tasks" WHERE id = $1`)
)

func newTestTaskStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	resolver, mock := newTestResolver(t)
	s, err := NewPostgresTaskStore(resolver, discardLogger())
	require.NoError(t, err)
	return s, mock
}

// captureDoc records the JSON document argument so a later query can return it.
type captureDoc struct {
	data *[]byte
}

func (c captureDoc) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*c.data = []byte(s)
	}
	return ok
}

func TestTaskStoreCreateAppliesDefaults(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)
	task := &domain.Task{Title: "  Stretch ", UserID: domain.NewID()}

	mock.ExpectExec(insertTaskSQL).
		WithArgs(sqlmock.AnyArg(), jsonDoc{check: func(doc map[string]any) bool {
			return doc["title"] == "Stretch" &&
				doc["category"] == domain.DefaultCategory &&
				doc["priority"] == float64(domain.DefaultPriority) &&
				doc["durationMinutes"] == float64(domain.DefaultDurationMinutes) &&
				doc["isCompleted"] == false
		}}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Create(context.Background(), task)

	require.NoError(t, err)
	assert.True(t, domain.IsValidID(id))
	assert.Equal(t, id, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreCreateRejectsInvalidTask(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name string
		task *domain.Task
	}{
		{"missing title", &domain.Task{}},
		{"priority out of range", &domain.Task{Title: "x", Priority: 9}},
		{"recurrence ended", &domain.Task{Title: "x", Recurrence: &domain.RecurrencePattern{
			Type: domain.RecurrenceDaily, Interval: 1, EndDate: &past,
		}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, mock := newTestTaskStore(t)

			_, err := s.Create(context.Background(), tt.task)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// A created task can be read back, and after a delete it is gone.
func TestTaskStoreLifecycle(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)
	var stored []byte
	future := time.Now().Add(30 * 24 * time.Hour).UTC()
	task := &domain.Task{
		Title:    "Water the plants",
		Priority: 2,
		Tags:     []string{"home"},
		Recurrence: &domain.RecurrencePattern{
			Type:       domain.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []domain.Weekday{domain.Weekday(time.Monday)},
			EndDate:    &future,
		},
	}

	mock.ExpectExec(insertTaskSQL).
		WithArgs(sqlmock.AnyArg(), captureDoc{data: &stored}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Create(context.Background(), task)
	require.NoError(t, err)

	mock.ExpectQuery(selectTaskSQL).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(stored))
	got, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, 2, got.Priority)
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, []domain.Weekday{domain.Weekday(time.Monday)}, got.Recurrence.DaysOfWeek)
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt))

	mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	deleted, err := s.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectQuery(selectTaskSQL).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"data"}))
	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	deleted, err = s.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreMalformedIDNeverQueries(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)

	_, err := s.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	deleted, err := s.Delete(context.Background(), "123")
	assert.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.Update(context.Background(), &domain.Task{ID: "zzzzzzzzzzzzzzzzzzzzzzzz", Title: "x"})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreLowercasesIDs(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)
	id := domain.NewID()
	owner := domain.NewID()
	mock.ExpectExec(insertTaskSQL).
		WithArgs(id, jsonDoc{check: func(doc map[string]any) bool {
			return doc["id"] == id && doc["userId"] == owner
		}}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectTaskSQL).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectExec(deleteTaskSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := s.Create(context.Background(), &domain.Task{
		ID:     strings.ToUpper(id),
		Title:  "Walk",
		UserID: strings.ToUpper(owner),
	})
	require.NoError(t, err)
	assert.Equal(t, id, created)

	_, err = s.GetByID(context.Background(), strings.ToUpper(id))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	deleted, err := s.Delete(context.Background(), strings.ToUpper(id))
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	current := &domain.Task{
		ID:              domain.NewID(),
		Title:           "Old",
		Category:        domain.DefaultCategory,
		Priority:        3,
		DurationMinutes: 15,
		CreatedAt:       created,
		UpdatedAt:       created,
		Tags:            []string{},
	}
	s.now = fixedClock(created)

	var replaced []byte
	mock.ExpectQuery(selectTaskSQL).WithArgs(current.ID).WillReturnRows(docRows(t, current))
	mock.ExpectQuery(updateTaskSQL).
		WithArgs(current.ID, captureDoc{data: &replaced}).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{}`)))

	_, err := s.Update(context.Background(), &domain.Task{
		ID:          current.ID,
		Title:       "New",
		IsCompleted: true,
	})
	require.NoError(t, err)

	var doc domain.Task
	require.NoError(t, json.Unmarshal(replaced, &doc))
	assert.Equal(t, "New", doc.Title)
	assert.True(t, doc.IsCompleted)
	assert.Equal(t, domain.DefaultPriority, doc.Priority, "defaults apply to replaced documents")
	assert.True(t, doc.CreatedAt.Equal(created))
	assert.True(t, doc.UpdatedAt.After(current.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreTransientFailures(t *testing.T) {
	t.Parallel()

	s, mock := newTestTaskStore(t)
	mock.ExpectQuery("SELECT data FROM").WillReturnError(errors.New("too many connections"))
	mock.ExpectExec("DELETE FROM").WillReturnError(errors.New("broken pipe"))

	_, err := s.ListAll(context.Background())
	assert.ErrorIs(t, err, store.ErrTransient)

	_, err = s.Delete(context.Background(), domain.NewID())
	assert.ErrorIs(t, err, store.ErrTransient)

	assert.NoError(t, mock.ExpectationsWereMet())
}
