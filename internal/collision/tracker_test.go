package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sbfs/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(4)

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker(2)

	require.NoError(t, tracker.Track("swe", 0x1111))
	require.NoError(t, tracker.Track("precip", 0x2222))
	require.Equal(t, 2, tracker.Count())
	require.Equal(t, []string{"swe", "precip"}, tracker.Names())
	require.False(t, tracker.HasCollision())
}

func TestTracker_EmptyName(t *testing.T) {
	tracker := NewTracker(1)

	require.ErrorIs(t, tracker.Track("", 0x1), errs.ErrInvalidPredictor)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Duplicate(t *testing.T) {
	tracker := NewTracker(2)
	require.NoError(t, tracker.Track("swe", 0x1111))

	err := tracker.Track("swe", 0x1111)
	require.ErrorIs(t, err, errs.ErrDuplicatePredictor)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker(2)
	require.NoError(t, tracker.Track("swe", 0xabcd))
	require.NoError(t, tracker.Track("precip", 0xabcd))

	require.True(t, tracker.HasCollision())
	require.Equal(t, []string{"swe", "precip"}, tracker.Names())
}
