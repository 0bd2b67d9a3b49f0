package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusExpired, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusExpired, false},
		{StatusPaid, StatusPaid, false},
		{StatusPending, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusExpired, StatusPending, false},
		{StatusExpired, StatusPaid, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("pending")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, s)

	s, err = ParseStatus("paid")
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, s)

	_, err = ParseStatus("confirmed")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}
