package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance is a daily check-in record of a worker on a project.
type Attendance struct {
	ID            uint            `gorm:"primaryKey"`
	WorkerID      uint            `gorm:"not null;index"`
	ProjectID     uint            `gorm:"not null;index:idx_attendance_date_project,priority:2"`
	Date          time.Time       `gorm:"type:date;not null;index:idx_attendance_date_project,priority:1"`
	CheckIn       *string         `gorm:"size:8"`
	CheckOut      *string         `gorm:"size:8"`
	StatusID      uint            `gorm:"not null"`
	HoursWorked   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	OvertimeHours decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Latitude      *string         `gorm:"size:32"`
	Longitude     *string         `gorm:"size:32"`
	Observation   *string         `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Worker *Worker    `gorm:"foreignKey:WorkerID"`
	Status *Parameter `gorm:"foreignKey:StatusID"`
}

// AttendanceInput records one worker-day. The worker is addressed by UUID.
type AttendanceInput struct {
	WorkerUUID    string          `validate:"required,uuid"`
	Date          time.Time       `validate:"required"`
	CheckIn       *string         `validate:"omitempty,len=5"`
	CheckOut      *string         `validate:"omitempty,len=5"`
	StatusID      uint            `validate:"required,gt=0"`
	HoursWorked   decimal.Decimal `validate:"-"`
	OvertimeHours decimal.Decimal `validate:"-"`
	Latitude      *string         `validate:"omitempty,latitude"`
	Longitude     *string         `validate:"omitempty,longitude"`
	Observation   *string
}
