package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devprofile-api/internal/domain"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2020-03-01", "2020-03-01T00:00:00Z", "2020-03-01T00:00:00", "2020-03-01T02:00:00+02:00"} {
		got, err := parseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}
	_, err := parseDate("01/03/2020")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDateUnmarshal(t *testing.T) {
	var in struct {
		From *Date `json:"from"`
		To   *Date `json:"to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"from":"2019-06-01","to":""}`), &in))
	require.NotNil(t, in.From.ptr())
	assert.Equal(t, 2019, in.From.Year())
	assert.Nil(t, in.To.ptr())

	var none struct {
		To *Date `json:"to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"to":null}`), &none))
	assert.Nil(t, none.To.ptr())

	var bad struct {
		From *Date `json:"from"`
	}
	var te *json.UnmarshalTypeError
	assert.ErrorAs(t, json.Unmarshal([]byte(`{"from":"yesterday"}`), &bad), &te)
}
