// Package models defines the persisted entities of the back-office and the
// input structures accepted by the service layer. Entities are mapped with
// GORM; derived presentation fields live in the view package instead.
package models

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{
		&Parameter{},
		&Company{},
		&Consortium{},
		&Membership{},
		&Department{},
		&Province{},
		&District{},
		&Project{},
		&Position{},
		&Bank{},
		&PensionSystem{},
		&Worker{},
		&Attendance{},
		&SafetyTalk{},
		&SafetyTalkParticipant{},
	}
}

// Option is a lightweight id/name pair used to populate selectors.
type Option struct {
	ID   uint
	Name string
}
