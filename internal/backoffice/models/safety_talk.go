package models

import "time"

// SafetyTalk is a toolbox talk held on a project site.
type SafetyTalk struct {
	ID             uint      `gorm:"primaryKey"`
	ProjectID      uint      `gorm:"not null;index"`
	Date           time.Time `gorm:"type:date;not null"`
	Topic          string    `gorm:"size:255;not null"`
	Description    *string   `gorm:"type:text"`
	InstructorName string    `gorm:"size:255;not null"`
	EvidencePath   *string   `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Participants []SafetyTalkParticipant `gorm:"foreignKey:SafetyTalkID"`
}

// SafetyTalkParticipant links a worker to a talk and records the signature.
type SafetyTalkParticipant struct {
	ID           uint `gorm:"primaryKey"`
	SafetyTalkID uint `gorm:"not null;uniqueIndex:idx_talk_worker"`
	WorkerID     uint `gorm:"not null;uniqueIndex:idx_talk_worker"`
	Signed       bool `gorm:"not null;default:false"`

	Worker *Worker `gorm:"foreignKey:WorkerID"`
}

func (SafetyTalkParticipant) TableName() string {
	return "safety_talk_worker"
}

// SafetyTalkInput creates a talk with its expected participants.
type SafetyTalkInput struct {
	Date           time.Time `validate:"required"`
	Topic          string    `validate:"required,max=255"`
	Description    *string
	InstructorName string   `validate:"required,max=255"`
	WorkerUUIDs    []string `validate:"dive,uuid"`
}
