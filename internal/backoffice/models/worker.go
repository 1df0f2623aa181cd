package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Worker is an employee of a company, optionally assigned to a project. The
// UUID is the external identifier used in routes and badges; the numeric ID
// never leaves the service.
type Worker struct {
	ID               uint       `gorm:"primaryKey"`
	UUID             uuid.UUID  `gorm:"column:uuid;size:36;not null;uniqueIndex"`
	DocumentTypeID   uint       `gorm:"not null"`
	DocumentNumber   string     `gorm:"size:20;not null;uniqueIndex"`
	FirstName        string     `gorm:"size:255;not null"`
	LastNamePaternal string     `gorm:"size:255;not null"`
	LastNameMaternal string     `gorm:"size:255;not null"`
	BirthDate        *time.Time `gorm:"type:date"`
	GenderID         *uint
	Phone            *string         `gorm:"size:20"`
	Email            *string         `gorm:"size:255"`
	Address          *string         `gorm:"size:255"`
	WorkerTypeID     uint            `gorm:"not null"`
	PositionID       uint            `gorm:"not null"`
	ProjectID        *uint           `gorm:"index"`
	CompanyID        uint            `gorm:"not null;index"`
	DailySalary      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MonthlySalary    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentTypeID    *uint
	BankID           *uint
	PensionSystemID  *uint
	BankAccount      *string    `gorm:"size:30"`
	CCI              *string    `gorm:"column:cci;size:30"`
	CUSPP            *string    `gorm:"column:cuspp;size:20"`
	HireDate         *time.Time `gorm:"type:date"`
	PhotoPath        *string    `gorm:"size:255"`
	IsActive         bool       `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	DocumentType  *Parameter     `gorm:"foreignKey:DocumentTypeID"`
	Gender        *Parameter     `gorm:"foreignKey:GenderID"`
	WorkerType    *Parameter     `gorm:"foreignKey:WorkerTypeID"`
	PaymentType   *Parameter     `gorm:"foreignKey:PaymentTypeID"`
	Position      *Position      `gorm:"foreignKey:PositionID"`
	Project       *Project       `gorm:"foreignKey:ProjectID"`
	Company       *Company       `gorm:"foreignKey:CompanyID"`
	Bank          *Bank          `gorm:"foreignKey:BankID"`
	PensionSystem *PensionSystem `gorm:"foreignKey:PensionSystemID"`
}

// WorkerInput is the validated payload for creating or updating a Worker.
// There is deliberately no UUID field: the identifier is always generated.
type WorkerInput struct {
	DocumentTypeID   uint            `validate:"required,gt=0"`
	DocumentNumber   string          `validate:"required,max=20"`
	FirstName        string          `validate:"required,max=255"`
	LastNamePaternal string          `validate:"required,max=255"`
	LastNameMaternal string          `validate:"required,max=255"`
	BirthDate        *time.Time      `validate:"omitempty"`
	GenderID         *uint           `validate:"omitempty,gt=0"`
	Phone            *string         `validate:"omitempty,max=20,pephone"`
	Email            *string         `validate:"omitempty,email,max=255"`
	Address          *string         `validate:"omitempty,max=255"`
	WorkerTypeID     uint            `validate:"required,gt=0"`
	PositionID       uint            `validate:"required,gt=0"`
	ProjectID        *uint           `validate:"omitempty,gt=0"`
	CompanyID        uint            `validate:"required,gt=0"`
	DailySalary      decimal.Decimal `validate:"-"`
	MonthlySalary    decimal.Decimal `validate:"-"`
	PaymentTypeID    *uint           `validate:"omitempty,gt=0"`
	BankID           *uint           `validate:"omitempty,gt=0"`
	PensionSystemID  *uint           `validate:"omitempty,gt=0"`
	BankAccount      *string         `validate:"omitempty,max=30"`
	CCI              *string         `validate:"omitempty,max=30"`
	CUSPP            *string         `validate:"omitempty,max=20"`
	HireDate         *time.Time      `validate:"omitempty"`
	IsActive         bool
}
