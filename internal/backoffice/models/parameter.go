package models

import "time"

// Well-known parameter groups seeded at install time.
const (
	GroupRoot             = "ROOT"
	GroupDocumentType     = "DOCUMENT_TYPE"
	GroupWorkerType       = "WORKER_TYPE"
	GroupPosition         = "POSITION"
	GroupAttendanceStatus = "ATTENDANCE_STATUS"
	GroupPaymentPeriod    = "PAYMENT_PERIOD"
	GroupProjectType      = "PROJECT_TYPE"
	GroupProjectStatus    = "PROJECT_STATUS"
	GroupGender           = "GENDER"
)

// Parameter is a node of the global lookup taxonomy. Roots have no parent and
// level 0; every child sits one level below its parent.
type Parameter struct {
	ID          uint    `gorm:"primaryKey"`
	Group       string  `gorm:"size:255;not null;index"`
	Name        string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	ParentID    *uint   `gorm:"index"`
	Level       int     `gorm:"not null;default:0;index"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Parent *Parameter `gorm:"foreignKey:ParentID"`
}

// TableName keeps the historical table name.
func (Parameter) TableName() string {
	return "global_parameters"
}

// ParameterInput is the payload for creating or updating a Parameter.
type ParameterInput struct {
	Group       string  `validate:"required,max=255"`
	Name        string  `validate:"required,max=255"`
	Description *string `validate:"omitempty"`
	ParentID    *uint   `validate:"omitempty,gt=0"`
	IsActive    bool
}
