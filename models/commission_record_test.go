package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{"pending can be approved", CommissionStatusPending, CommissionStatusApproved, true},
		{"pending can be rejected", CommissionStatusPending, CommissionStatusRejected, true},
		{"pending cannot be paid directly", CommissionStatusPending, CommissionStatusPaid, false},
		{"approved can be paid", CommissionStatusApproved, CommissionStatusPaid, true},
		{"approved cannot be approved again", CommissionStatusApproved, CommissionStatusApproved, false},
		{"approved cannot be rejected", CommissionStatusApproved, CommissionStatusRejected, false},
		{"rejected is terminal for paying", CommissionStatusRejected, CommissionStatusPaid, false},
		{"rejected is terminal for approving", CommissionStatusRejected, CommissionStatusApproved, false},
		{"paid is terminal", CommissionStatusPaid, CommissionStatusApproved, false},
		{"paid cannot be paid again", CommissionStatusPaid, CommissionStatusPaid, false},
		{"nothing moves back to pending", CommissionStatusApproved, CommissionStatusPending, false},
		{"unknown status never applies", CommissionStatusPending, "settled", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.current, tt.next))
		})
	}
}

func TestRecordLifecycle(t *testing.T) {
	// Happy path: pending -> approved -> paid
	status := CommissionStatusPending
	require.True(t, CanTransition(status, CommissionStatusApproved))
	status = CommissionStatusApproved
	require.True(t, CanTransition(status, CommissionStatusPaid))
	status = CommissionStatusPaid
	assert.False(t, CanTransition(status, CommissionStatusApproved))
	assert.False(t, CanTransition(status, CommissionStatusRejected))

	// Rejection path: a rejected record can never be paid
	status = CommissionStatusPending
	require.True(t, CanTransition(status, CommissionStatusRejected))
	status = CommissionStatusRejected
	assert.False(t, CanTransition(status, CommissionStatusPaid))
	assert.False(t, CanTransition(status, CommissionStatusApproved))
}

func TestRequiredStatusFor(t *testing.T) {
	required, ok := RequiredStatusFor(CommissionStatusApproved)
	require.True(t, ok)
	assert.Equal(t, CommissionStatusPending, required)

	required, ok = RequiredStatusFor(CommissionStatusRejected)
	require.True(t, ok)
	assert.Equal(t, CommissionStatusPending, required)

	required, ok = RequiredStatusFor(CommissionStatusPaid)
	require.True(t, ok)
	assert.Equal(t, CommissionStatusApproved, required)

	_, ok = RequiredStatusFor(CommissionStatusPending)
	assert.False(t, ok, "records are created pending, nothing transitions into it")

	_, ok = RequiredStatusFor("bogus")
	assert.False(t, ok)
}

func TestTransitionSet(t *testing.T) {
	actor := primitive.NewObjectID()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("approve stamps approver", func(t *testing.T) {
		set := TransitionSet(CommissionStatusApproved, actor, now)
		assert.Equal(t, CommissionStatusApproved, set["status"])
		assert.Equal(t, actor, set["approvedBy"])
		assert.Equal(t, now, set["approvedDate"])
		assert.Equal(t, now, set["updatedAt"])
		assert.NotContains(t, set, "rejectedBy")
		assert.NotContains(t, set, "paidDate")
	})

	t.Run("reject stamps rejecter", func(t *testing.T) {
		set := TransitionSet(CommissionStatusRejected, actor, now)
		assert.Equal(t, CommissionStatusRejected, set["status"])
		assert.Equal(t, actor, set["rejectedBy"])
		assert.Equal(t, now, set["rejectedDate"])
		assert.NotContains(t, set, "approvedBy")
	})

	t.Run("pay stamps payment date only", func(t *testing.T) {
		set := TransitionSet(CommissionStatusPaid, primitive.NilObjectID, now)
		assert.Equal(t, CommissionStatusPaid, set["status"])
		assert.Equal(t, now, set["paidDate"])
		assert.NotContains(t, set, "approvedBy")
		assert.NotContains(t, set, "rejectedBy")
	})
}
