package absence

import (
	"testing"
	"time"

	"timetrack/backend/internal/auth"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name     string
		newStart string
		newEnd   string
		exStart  string
		exEnd    string
		want     bool
	}{
		{name: "new start inside existing", newStart: "2026-03-03", newEnd: "2026-03-10", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "new end inside existing", newStart: "2026-02-25", newEnd: "2026-03-02", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "new contains existing", newStart: "2026-02-25", newEnd: "2026-03-10", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "existing contains new", newStart: "2026-03-02", newEnd: "2026-03-03", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "shared end boundary", newStart: "2026-03-05", newEnd: "2026-03-07", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "shared start boundary", newStart: "2026-02-27", newEnd: "2026-03-01", exStart: "2026-03-01", exEnd: "2026-03-05", want: true},
		{name: "identical single day", newStart: "2026-03-01", newEnd: "2026-03-01", exStart: "2026-03-01", exEnd: "2026-03-01", want: true},
		{name: "adjacent before", newStart: "2026-02-25", newEnd: "2026-02-28", exStart: "2026-03-01", exEnd: "2026-03-05", want: false},
		{name: "adjacent after", newStart: "2026-03-06", newEnd: "2026-03-08", exStart: "2026-03-01", exEnd: "2026-03-05", want: false},
		{name: "disjoint", newStart: "2026-04-01", newEnd: "2026-04-05", exStart: "2026-03-01", exEnd: "2026-03-05", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rangesOverlap(day(tt.newStart), day(tt.newEnd), day(tt.exStart), day(tt.exEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, validStatus(StatusPending))
	assert.True(t, validStatus(StatusApproved))
	assert.True(t, validStatus(StatusRejected))
	assert.False(t, validStatus("cancelled"))
	assert.False(t, validStatus(""))
}

func TestCanMutate(t *testing.T) {
	admin := auth.Claims{UserId: 1, Role: auth.RoleAdmin}
	owner := auth.Claims{UserId: 2, Role: auth.RoleEmployee}
	other := auth.Claims{UserId: 3, Role: auth.RoleEmployee}

	assert.True(t, canMutate(admin, 2, StatusApproved), "admin may change any request in any status")
	assert.True(t, canMutate(owner, 2, StatusPending), "owner may change a pending request")
	assert.False(t, canMutate(owner, 2, StatusApproved), "owner may not change an approved request")
	assert.False(t, canMutate(owner, 2, StatusRejected), "owner may not change a rejected request")
	assert.False(t, canMutate(other, 2, StatusPending), "others may not change the request at all")
}
