package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("1990-01-01")
	require.NoError(t, err)
	assert.Equal(t, "1990-01-01", d.String())

	d, err = ParseDate("1990-01-01T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, NewDate(1990, time.January, 1), d)

	_, err = ParseDate("01/01/1990")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	type doc struct {
		BirthDate Date `json:"birthDate"`
	}

	data, err := json.Marshal(doc{BirthDate: NewDate(1990, time.January, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"birthDate":"1990-01-01"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, NewDate(1990, time.January, 1), out.BirthDate)

	require.NoError(t, json.Unmarshal([]byte(`{"birthDate":null}`), &out))
	assert.True(t, out.BirthDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"birthDate":"yesterday"}`), &out))
}

func TestWeekdayText(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Weekday{Weekday(time.Monday), Weekday(time.Friday)})
	require.NoError(t, err)
	assert.JSONEq(t, `["Monday","Friday"]`, string(data))

	var days []Weekday
	require.NoError(t, json.Unmarshal([]byte(`["sunday","SATURDAY"]`), &days))
	assert.Equal(t, []Weekday{Weekday(time.Sunday), Weekday(time.Saturday)}, days)

	assert.Error(t, json.Unmarshal([]byte(`["Funday"]`), &days))

	_, err = Weekday(9).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}
