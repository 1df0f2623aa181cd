package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consortium is a joint venture of two or more companies, each holding a
// participation percentage.
type Consortium struct {
	ID                  uint    `gorm:"primaryKey"`
	RUC                 *string `gorm:"column:ruc;size:11;uniqueIndex"`
	Name                string  `gorm:"size:255;not null"`
	LogoPath            *string `gorm:"column:url_logo;size:255"`
	LegalRepresentative *string `gorm:"size:255"`
	RepresentativeDNI   *string `gorm:"column:representative_dni;size:8"`
	RepresentativeEmail *string `gorm:"size:255"`
	RepresentativePhone *string `gorm:"size:20"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Members []Membership `gorm:"foreignKey:ConsortiumID"`
}

// TableName keeps the irregular plural.
func (Consortium) TableName() string {
	return "consortia"
}

// Membership is the consortium/company pivot with its own identity and the
// participation percentage of the company in that consortium.
type Membership struct {
	ID                      uint            `gorm:"primaryKey"`
	ConsortiumID            uint            `gorm:"not null;uniqueIndex:idx_consortium_company"`
	CompanyID               uint            `gorm:"not null;uniqueIndex:idx_consortium_company;index"`
	ParticipationPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}

// TableName keeps the historical pivot name.
func (Membership) TableName() string {
	return "consortium_company"
}

// MemberInput is one requested membership of a consortium.
type MemberInput struct {
	CompanyID  uint            `validate:"required,gt=0"`
	Percentage decimal.Decimal `validate:"-"`
}

// ConsortiumInput is the validated payload for the scalar consortium fields.
type ConsortiumInput struct {
	RUC                 *string `validate:"omitempty,ruc"`
	Name                string  `validate:"required,max=255"`
	LegalRepresentative *string `validate:"required,max=255"`
	RepresentativeDNI   *string `validate:"required,dni"`
	RepresentativeEmail *string `validate:"omitempty,email"`
	RepresentativePhone *string `validate:"omitempty,max=20,pephone"`
}
