package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionState_Granted(t *testing.T) {
	require.True(t, PermissionGranted.Granted())
	require.False(t, PermissionNotDetermined.Granted())
	require.False(t, PermissionDenied.Granted())
	require.False(t, PermissionRestricted.Granted())
}

func TestPermissionState_Retriable(t *testing.T) {
	require.True(t, PermissionNotDetermined.Retriable())
	require.True(t, PermissionDenied.Retriable())
	require.False(t, PermissionRestricted.Retriable())
	require.False(t, PermissionGranted.Retriable())
}
