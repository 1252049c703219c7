// Package model defines the core data structures shared across the solver
// service: solve jobs, placements, and solve results.
package model

import "time"

// SLAMode selects which SLA latency constraint a solve enforces (§ConstraintSpec).
type SLAMode string

const (
	SLAModeEventual SLAMode = "eventual"
	SLAModeStrong   SLAMode = "strong"
)

// JobStatus represents the lifecycle status of a solve job.
type JobStatus int

const (
	JobStatusPending   JobStatus = 0
	JobStatusRunning   JobStatus = 1
	JobStatusCompleted JobStatus = 2
	JobStatusFailed    JobStatus = 3
)

// String returns the string representation of JobStatus.
func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusRunning:
		return "running"
	case JobStatusCompleted:
		return "completed"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SolveJob describes one request to solve a geo-distributed placement
// instance, either from the four GDSS JSON documents or a random instance
// of a given data center count.
type SolveJob struct {
	ID            int64     `json:"id" db:"id"`
	JobUUID       string    `json:"job_uuid" db:"job_uuid"`
	CostInfo      string    `json:"cost_info,omitempty" db:"cost_info"`
	MonitoringInfo string   `json:"monitoring_info,omitempty" db:"monitoring_info"`
	Query         string    `json:"query,omitempty" db:"query"`
	Goals         string    `json:"goals,omitempty" db:"goals"`
	DCList        int       `json:"dc_list,omitempty" db:"dc_list"`
	DCTiers       string    `json:"dc_tiers,omitempty" db:"dc_tiers"` // JSON-encoded []int, one tier count per DC
	SLA           SLAMode   `json:"sla" db:"sla"`
	ParallelBuild bool      `json:"parallel_build" db:"parallel_build"`
	GetConfigN    int       `json:"get_config_n" db:"get_config_n"`
	ExportZDD     bool      `json:"export_zdd" db:"export_zdd"`
	Status        JobStatus `json:"status" db:"status"`
	StatusInfo    string    `json:"status_info" db:"status_info"`
	CreateTime    time.Time `json:"create_time" db:"create_time"`
	BeginTime     *time.Time `json:"begin_time" db:"begin_time"`
	EndTime       *time.Time `json:"end_time" db:"end_time"`
}

// IsRandomInstance returns true if the job should generate a random instance
// of DCList data centers instead of reading the four JSON documents.
func (j *SolveJob) IsRandomInstance() bool {
	return j.DCList > 0
}

// NewSolveJob creates a new pending SolveJob.
func NewSolveJob(id int64, jobUUID string, sla SLAMode) *SolveJob {
	return &SolveJob{
		ID:         id,
		JobUUID:    jobUUID,
		SLA:        sla,
		GetConfigN: 1,
		Status:     JobStatusPending,
		CreateTime: time.Now(),
	}
}
