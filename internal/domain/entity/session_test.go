package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_StartsGated(t *testing.T) {
	s := NewSession(1, 10)
	require.Equal(t, StateGated, s.State)
	require.Equal(t, PositionBack, s.Position)
	require.False(t, s.Torch)
	require.Nil(t, s.Image)
	require.Equal(t, int64(1), s.UserID)
	require.Equal(t, int64(10), s.ChatID)
}

func TestSession_CanToggle(t *testing.T) {
	s := NewSession(1, 10)

	s.SetState(StateIdle)
	require.True(t, s.CanToggle())

	s.SetState(StatePreviewing)
	require.True(t, s.CanToggle())

	s.SetState(StateCapturing)
	require.False(t, s.CanToggle())

	s.SetState(StateGated)
	require.False(t, s.CanToggle())

	s.SetState(StateUnavailable)
	require.False(t, s.CanToggle())
}

func TestDevicePosition_Opposite(t *testing.T) {
	require.Equal(t, PositionFront, PositionBack.Opposite())
	require.Equal(t, PositionBack, PositionFront.Opposite())
}
