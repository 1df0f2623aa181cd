package models

import "time"

// Company is an independent legal party. It may own projects directly and
// take part in any number of consortia.
type Company struct {
	ID                  uint    `gorm:"primaryKey"`
	RUC                 string  `gorm:"column:ruc;size:11;not null;uniqueIndex"`
	Name                string  `gorm:"size:255;not null"`
	Email               *string `gorm:"size:255"`
	Phone               *string `gorm:"size:20"`
	Address             *string `gorm:"size:500"`
	LogoPath            *string `gorm:"column:url_logo;size:255"`
	IssuesPaymentOrder  bool    `gorm:"not null;default:false"`
	LegalRepresentative *string `gorm:"size:255"`
	RepresentativeDNI   *string `gorm:"column:representative_dni;size:8"`
	RepresentativePhone *string `gorm:"size:20"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CompanyInput is the validated payload for creating or updating a Company.
type CompanyInput struct {
	RUC                 string  `validate:"required,ruc"`
	Name                string  `validate:"required,max=255"`
	Email               *string `validate:"omitempty,email"`
	Phone               *string `validate:"omitempty,max=20,pephone"`
	Address             *string `validate:"omitempty,max=500"`
	IssuesPaymentOrder  bool
	LegalRepresentative *string `validate:"omitempty,max=255"`
	RepresentativeDNI   *string `validate:"omitempty,dni"`
	RepresentativePhone *string `validate:"omitempty,max=20,pephone"`
}
