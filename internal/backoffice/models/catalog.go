package models

import "time"

// Department, Province and District form the three-level Ubigeo hierarchy.
// Their ids are the official Ubigeo codes (2, 4 and 6 digits).
type Department struct {
	ID   string `gorm:"primaryKey;size:2" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// TableName follows the Ubigeo dataset naming.
func (Department) TableName() string { return "ubigeo_peru_departments" }

type Province struct {
	ID           string `gorm:"primaryKey;size:4" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	DepartmentID string `gorm:"size:2;not null;index" json:"department_id"`
}

func (Province) TableName() string { return "ubigeo_peru_provinces" }

type District struct {
	ID           string `gorm:"primaryKey;size:6" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	ProvinceID   string `gorm:"size:4;not null;index" json:"province_id"`
	DepartmentID string `gorm:"size:2;not null" json:"department_id"`
}

func (District) TableName() string { return "ubigeo_peru_districts" }

// Position is a job title a worker can hold.
type Position struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Department string    `gorm:"size:255" json:"department"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// Bank where workers receive their salary.
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	ShortName string    `gorm:"size:50" json:"short_name"`
	RUC       string    `gorm:"column:ruc;size:11" json:"ruc"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PensionSystem is an AFP or the public ONP scheme.
type PensionSystem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
