package worklog

import (
	"testing"

	"timetrack/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalMinutes(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		want      int
	}{
		{name: "regular working day", startTime: "09:00", endTime: "18:00", want: 540},
		{name: "short shift", startTime: "10:30", endTime: "12:00", want: 90},
		{name: "end before start falls back to full day", startTime: "18:00", endTime: "09:00", want: defaultDayMinutes},
		{name: "equal times fall back to full day", startTime: "09:00", endTime: "09:00", want: defaultDayMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := totalMinutes(tt.startTime, tt.endTime)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalMinutes_BadFormat(t *testing.T) {
	_, err := totalMinutes("9am", "18:00")
	require.Error(t, err)

	_, err = totalMinutes("09:00", "six")
	require.Error(t, err)
}

func TestValidType(t *testing.T) {
	assert.True(t, validType(TypeWork))
	assert.True(t, validType(TypeAbsence))
	assert.False(t, validType("holiday"))
	assert.False(t, validType(""))
}

func TestCanMutate(t *testing.T) {
	admin := auth.Claims{UserId: 1, Role: auth.RoleAdmin}
	employee := auth.Claims{UserId: 2, Role: auth.RoleEmployee}

	assert.True(t, canMutate(admin, 99), "admin may change any entry")
	assert.True(t, canMutate(employee, 2), "employee may change own entry")
	assert.False(t, canMutate(employee, 3), "employee may not change another user's entry")
}
