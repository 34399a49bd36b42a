package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttendancePercent(t *testing.T) {
	require.Equal(t, 0.0, AttendancePercent(0, 0))
	require.Equal(t, 100.0, AttendancePercent(10, 10))
	require.Equal(t, 66.7, AttendancePercent(2, 3))
	require.Equal(t, 80.0, AttendancePercent(40, 50))
}

func TestBunkGuardAboveTarget(t *testing.T) {
	report, err := BunkGuard(40, 50, 75)
	require.NoError(t, err)
	require.True(t, report.CanSkip)
	require.Equal(t, 3, report.Count)
	require.Equal(t, 80.0, report.Percentage)
	require.Equal(t, "You can safely skip 3 more classes.", report.Message)
}

func TestBunkGuardExactlyOnTarget(t *testing.T) {
	report, err := BunkGuard(3, 4, 75)
	require.NoError(t, err)
	require.True(t, report.CanSkip)
	require.Equal(t, 0, report.Count)
	require.Equal(t, "Attendance is on target, but don't skip the next class.", report.Message)
}

func TestBunkGuardBelowTarget(t *testing.T) {
	report, err := BunkGuard(30, 50, 75)
	require.NoError(t, err)
	require.False(t, report.CanSkip)
	require.Equal(t, 30, report.Count)
	require.Equal(t, "You must attend the next 30 classes to reach 75%.", report.Message)

	// Recovery count really restores the target.
	require.GreaterOrEqual(t, AttendancePercent(30+report.Count, 50+report.Count), 75.0)
	require.Less(t, AttendancePercent(30+report.Count-1, 50+report.Count-1), 75.0)
}

func TestBunkGuardEmptyLedger(t *testing.T) {
	report, err := BunkGuard(0, 0, 75)
	require.NoError(t, err)
	require.False(t, report.CanSkip)
	require.Equal(t, 0, report.Count)
	require.Equal(t, 0.0, report.Percentage)
}

func TestBunkGuardRejectsDegenerateTargets(t *testing.T) {
	for _, target := range []int{0, 100, -5, 150} {
		_, err := BunkGuard(10, 10, target)
		require.Error(t, err)
	}
}

func TestBunkGuardRejectsInvalidCounters(t *testing.T) {
	_, err := BunkGuard(5, 3, 75)
	require.Error(t, err)
	_, err = BunkGuard(-1, 3, 75)
	require.Error(t, err)
}
