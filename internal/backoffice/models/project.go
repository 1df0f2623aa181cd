package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project is a work or service contract owned by exactly one company or one
// consortium. Projects are soft-deleted.
type Project struct {
	ID                 uint            `gorm:"primaryKey"`
	ProjectCode        string          `gorm:"size:20;not null;uniqueIndex"`
	ProjectName        string          `gorm:"size:255;not null"`
	ShortName          string          `gorm:"size:50;not null;uniqueIndex"`
	TypeID             uint            `gorm:"not null;index"`
	StatusID           uint            `gorm:"not null;index"`
	ContractualAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ProjectedAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	StartDate          time.Time       `gorm:"type:date;not null"`
	EndDateContractual time.Time       `gorm:"type:date;not null"`
	EndDateReal        *time.Time      `gorm:"type:date"`
	DepartmentID       string          `gorm:"size:2;not null"`
	ProvinceID         string          `gorm:"size:4;not null"`
	DistrictID         string          `gorm:"size:6;not null"`
	Address            *string         `gorm:"size:500"`
	CoverImage         *string         `gorm:"size:255"`
	CompanyID          *uint           `gorm:"index"`
	ConsortiumID       *uint           `gorm:"index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	Type       *Parameter  `gorm:"foreignKey:TypeID"`
	Status     *Parameter  `gorm:"foreignKey:StatusID"`
	Department *Department `gorm:"foreignKey:DepartmentID"`
	Province   *Province   `gorm:"foreignKey:ProvinceID"`
	District   *District   `gorm:"foreignKey:DistrictID"`
	Company    *Company    `gorm:"foreignKey:CompanyID"`
	Consortium *Consortium `gorm:"foreignKey:ConsortiumID"`
}

// ProjectInput is the validated payload for creating or updating a Project.
// ProjectCode is optional on create: when blank a code is generated.
// Exactly one of CompanyID and ConsortiumID must be set; the service layer
// enforces it.
type ProjectInput struct {
	ProjectCode        *string         `validate:"omitempty,max=20"`
	ProjectName        string          `validate:"required,max=255"`
	ShortName          string          `validate:"required,max=50"`
	TypeID             uint            `validate:"required,gt=0"`
	StatusID           uint            `validate:"required,gt=0"`
	ContractualAmount  decimal.Decimal `validate:"-"`
	ProjectedAmount    decimal.Decimal `validate:"-"`
	StartDate          time.Time       `validate:"required"`
	EndDateContractual time.Time       `validate:"required,gtefield=StartDate"`
	EndDateReal        *time.Time      `validate:"omitempty"`
	DepartmentID       string          `validate:"required,len=2,numeric"`
	ProvinceID         string          `validate:"required,len=4,numeric"`
	DistrictID         string          `validate:"required,len=6,numeric"`
	Address            *string         `validate:"omitempty,max=500"`
	CompanyID          *uint           `validate:"omitempty,gt=0"`
	ConsortiumID       *uint           `validate:"omitempty,gt=0"`
}
