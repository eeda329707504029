package warehouse

import (
	"testing"

	"site-ops-api-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.RequestStatus
		want     bool
	}{
		{models.StatusSubmitted, models.StatusApproved, true},
		{models.StatusSubmitted, models.StatusRejected, true},
		{models.StatusApproved, models.StatusIssued, true},
		{models.StatusApproved, models.StatusRejected, true},
		{models.StatusSubmitted, models.StatusIssued, false},
		{models.StatusApproved, models.StatusSubmitted, false},
		{models.StatusIssued, models.StatusSubmitted, false},
		{models.StatusIssued, models.StatusApproved, false},
		{models.StatusIssued, models.StatusRejected, false},
		{models.StatusRejected, models.StatusApproved, false},
		{models.StatusRejected, models.StatusSubmitted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRoleCanTransition(t *testing.T) {
	assert.True(t, RoleCanTransition("manager", models.StatusApproved))
	assert.True(t, RoleCanTransition("admin", models.StatusApproved))
	assert.True(t, RoleCanTransition("manager", models.StatusRejected))
	assert.True(t, RoleCanTransition("warehouse", models.StatusIssued))
	assert.True(t, RoleCanTransition("admin", models.StatusIssued))

	assert.False(t, RoleCanTransition("warehouse", models.StatusApproved))
	assert.False(t, RoleCanTransition("supervisor", models.StatusApproved))
	assert.False(t, RoleCanTransition("manager", models.StatusIssued))
	assert.False(t, RoleCanTransition("employee", models.StatusIssued))
	assert.False(t, RoleCanTransition("manager", models.StatusSubmitted))
}
