package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_String(t *testing.T) {
	tests := []struct {
		status   JobStatus
		expected string
	}{
		{JobStatusPending, "pending"},
		{JobStatusRunning, "running"},
		{JobStatusCompleted, "completed"},
		{JobStatusFailed, "failed"},
		{JobStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestSolveJob_IsRandomInstance(t *testing.T) {
	job := NewSolveJob(1, "job-1", SLAModeEventual)
	assert.False(t, job.IsRandomInstance())

	job.DCList = 5
	assert.True(t, job.IsRandomInstance())
}

func TestNewSolveJob(t *testing.T) {
	job := NewSolveJob(7, "job-uuid", SLAModeStrong)
	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, "job-uuid", job.JobUUID)
	assert.Equal(t, SLAModeStrong, job.SLA)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.GetConfigN)
	assert.False(t, job.CreateTime.IsZero())
}
