package model

import "time"

// PushSubscription holds a student's browser push subscription, used to
// notify them when a decision is made on their request.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	BITSID    string    `gorm:"column:bits_id;size:32;not null;index" json:"bits_id"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}
