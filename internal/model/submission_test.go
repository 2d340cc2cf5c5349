package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name  string
		marks *int
		want  int
	}{
		{"ungraded", nil, 20},
		{"top band", intPtr(95), 100},
		{"exactly 90", intPtr(90), 100},
		{"upper band", intPtr(82), 80},
		{"exactly 75", intPtr(75), 80},
		{"middle band", intPtr(65), 60},
		{"exactly 60", intPtr(60), 60},
		{"lower band", intPtr(45), 40},
		{"exactly 40", intPtr(40), 40},
		{"failing", intPtr(10), 20},
		{"zero", intPtr(0), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.marks))
		})
	}
}

func TestSubmissionStatus_Reviewed(t *testing.T) {
	assert.False(t, SubmissionPending.Reviewed())
	assert.True(t, SubmissionApproved.Reviewed())
	assert.True(t, SubmissionRejected.Reviewed())
	assert.False(t, SubmissionStatus("archived").Reviewed())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("guest").Valid())
}
