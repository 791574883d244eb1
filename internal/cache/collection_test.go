package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshReplacesWholesale(t *testing.T) {
	snapshots := [][]string{{"a", "b"}, {"c"}}
	i := 0
	c := New("things", func(ctx context.Context) ([]string, error) {
		s := snapshots[i]
		i++
		return s, nil
	})

	assert.False(t, c.Loaded())
	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.Loaded())
	assert.Equal(t, []string{"a", "b"}, c.List())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"c"}, c.List(), "old entries never survive a refresh")
}

func TestFailedRefreshKeepsPreviousContents(t *testing.T) {
	calls := 0
	c := New("things", func(ctx context.Context) ([]string, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("boom")
		}
		return []string{"a"}, nil
	})

	require.NoError(t, c.Refresh(context.Background()))
	require.Error(t, c.Refresh(context.Background()))

	assert.Equal(t, []string{"a"}, c.List())
	assert.True(t, c.Loaded())
	assert.EqualError(t, c.Err(), "boom")

	c.ClearErr()
	assert.NoError(t, c.Err())
	assert.Equal(t, []string{"a"}, c.List())
}

func TestSuccessfulRefreshClearsError(t *testing.T) {
	c := New("things", func(ctx context.Context) ([]string, error) { return []string{"a"}, nil })
	c.Fail(errors.New("earlier failure"))

	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.Err())
}

func TestLastResponseWins(t *testing.T) {
	c := New[string]("things", nil)

	// two in-flight refreshes landing out of order: whichever response
	// arrives last is what the cache holds
	c.Replace([]string{"late-request"})
	c.Replace([]string{"early-request-slow-response"})
	assert.Equal(t, []string{"early-request-slow-response"}, c.List())
}

func TestNotLoadedDistinctFromEmpty(t *testing.T) {
	c := New[string]("things", nil)
	assert.False(t, c.Loaded())
	assert.Empty(t, c.List())

	c.Replace([]string{})
	assert.True(t, c.Loaded(), "an empty snapshot is a loaded state, not a pending one")
}
