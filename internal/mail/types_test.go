package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadSort(t *testing.T) {
	thread := Thread{
		{ID: "c", Timestamp: 300},
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 200},
	}

	thread.Sort()

	assert.Equal(t, "a", thread[0].ID)
	assert.Equal(t, "b", thread[1].ID)
	assert.Equal(t, "c", thread[2].ID)
}

func TestThreadSortStable(t *testing.T) {
	thread := Thread{
		{ID: "first", Timestamp: 100},
		{ID: "second", Timestamp: 100},
	}

	thread.Sort()

	// Equal timestamps keep fetch order.
	assert.Equal(t, "first", thread[0].ID)
	assert.Equal(t, "second", thread[1].ID)
}

func TestThreadLatest(t *testing.T) {
	thread := Thread{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 200},
	}

	latest, ok := thread.Latest()
	require.True(t, ok)
	assert.Equal(t, "b", latest.ID)
}

func TestThreadLatestEmpty(t *testing.T) {
	_, ok := Thread{}.Latest()
	assert.False(t, ok)
}
