// Package repository provides database abstraction for the solver service.
package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/geotier/solver/pkg/model"
)

// SolveJobRecord represents the solve_jobs table.
type SolveJobRecord struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement"`
	JobUUID        string         `gorm:"column:job_uuid;type:varchar(64);uniqueIndex"`
	CostInfo       string         `gorm:"column:cost_info;type:text"`
	MonitoringInfo string         `gorm:"column:monitoring_info;type:text"`
	Query          string         `gorm:"column:query;type:text"`
	Goals          string         `gorm:"column:goals;type:text"`
	DCList         int            `gorm:"column:dc_list"`
	DCTiers        string         `gorm:"column:dc_tiers;type:text"`
	SLA            model.SLAMode  `gorm:"column:sla;type:varchar(16)"`
	ParallelBuild  bool           `gorm:"column:parallel_build"`
	GetConfigN     int            `gorm:"column:get_config_n"`
	ExportZDD      bool           `gorm:"column:export_zdd"`
	Status         model.JobStatus `gorm:"column:status"`
	StatusInfo     string         `gorm:"column:status_info;type:text"`
	CreateTime     time.Time      `gorm:"column:create_time;autoCreateTime"`
	BeginTime      *time.Time     `gorm:"column:begin_time"`
	EndTime        *time.Time     `gorm:"column:end_time"`
}

// TableName returns the table name for SolveJobRecord.
func (SolveJobRecord) TableName() string {
	return "solve_jobs"
}

// ToModel converts a SolveJobRecord to model.SolveJob.
func (j *SolveJobRecord) ToModel() *model.SolveJob {
	return &model.SolveJob{
		ID:             j.ID,
		JobUUID:        j.JobUUID,
		CostInfo:       j.CostInfo,
		MonitoringInfo: j.MonitoringInfo,
		Query:          j.Query,
		Goals:          j.Goals,
		DCList:         j.DCList,
		DCTiers:        j.DCTiers,
		SLA:            j.SLA,
		ParallelBuild:  j.ParallelBuild,
		GetConfigN:     j.GetConfigN,
		ExportZDD:      j.ExportZDD,
		Status:         j.Status,
		StatusInfo:     j.StatusInfo,
		CreateTime:     j.CreateTime,
		BeginTime:      j.BeginTime,
		EndTime:        j.EndTime,
	}
}

// SolveJobRecordFromModel builds a SolveJobRecord from a model.SolveJob.
func SolveJobRecordFromModel(j *model.SolveJob) *SolveJobRecord {
	return &SolveJobRecord{
		ID:             j.ID,
		JobUUID:        j.JobUUID,
		CostInfo:       j.CostInfo,
		MonitoringInfo: j.MonitoringInfo,
		Query:          j.Query,
		Goals:          j.Goals,
		DCList:         j.DCList,
		DCTiers:        j.DCTiers,
		SLA:            j.SLA,
		ParallelBuild:  j.ParallelBuild,
		GetConfigN:     j.GetConfigN,
		ExportZDD:      j.ExportZDD,
		Status:         j.Status,
		StatusInfo:     j.StatusInfo,
		CreateTime:     j.CreateTime,
		BeginTime:      j.BeginTime,
		EndTime:        j.EndTime,
	}
}

// SolveResultRecord represents the solve_results table.
type SolveResultRecord struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	JobUUID     string    `gorm:"column:job_uuid;type:varchar(64);uniqueIndex"`
	Cardinality string    `gorm:"column:cardinality;type:varchar(128)"`
	Feasible    bool      `gorm:"column:feasible"`
	OptimalCost float64   `gorm:"column:optimal_cost"`
	Optimal     JSONField `gorm:"column:optimal;type:json"`
	Ranked      JSONField `gorm:"column:ranked;type:json"`
	ExportPath  string    `gorm:"column:export_path;type:varchar(512)"`
	DotPath     string    `gorm:"column:dot_path;type:varchar(512)"`
	SummaryPath string    `gorm:"column:summary_path;type:varchar(512)"`
	SolvedAt    time.Time `gorm:"column:solved_at"`
	BuildNodes  int       `gorm:"column:build_nodes"`
	ReduceNodes int       `gorm:"column:reduce_nodes"`
}

// TableName returns the table name for SolveResultRecord.
func (SolveResultRecord) TableName() string {
	return "solve_results"
}

// ToModel converts a SolveResultRecord to model.SolveResult.
func (r *SolveResultRecord) ToModel() (*model.SolveResult, error) {
	result := &model.SolveResult{
		JobUUID:     r.JobUUID,
		Cardinality: r.Cardinality,
		Feasible:    r.Feasible,
		OptimalCost: r.OptimalCost,
		ExportPath:  r.ExportPath,
		DotPath:     r.DotPath,
		SummaryPath: r.SummaryPath,
		SolvedAt:    r.SolvedAt,
		BuildNodes:  r.BuildNodes,
		ReduceNodes: r.ReduceNodes,
	}

	if r.Optimal != nil {
		if err := json.Unmarshal(r.Optimal, &result.Optimal); err != nil {
			return nil, err
		}
	}
	if r.Ranked != nil {
		if err := json.Unmarshal(r.Ranked, &result.Ranked); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// SolveResultRecordFromModel builds a SolveResultRecord from a model.SolveResult.
func SolveResultRecordFromModel(r *model.SolveResult) (*SolveResultRecord, error) {
	rec := &SolveResultRecord{
		JobUUID:     r.JobUUID,
		Cardinality: r.Cardinality,
		Feasible:    r.Feasible,
		OptimalCost: r.OptimalCost,
		ExportPath:  r.ExportPath,
		DotPath:     r.DotPath,
		SummaryPath: r.SummaryPath,
		SolvedAt:    r.SolvedAt,
		BuildNodes:  r.BuildNodes,
		ReduceNodes: r.ReduceNodes,
	}

	optimal, err := json.Marshal(r.Optimal)
	if err != nil {
		return nil, err
	}
	rec.Optimal = optimal

	ranked, err := json.Marshal(r.Ranked)
	if err != nil {
		return nil, err
	}
	rec.Ranked = ranked

	return rec, nil
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
