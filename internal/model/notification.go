package model

import "time"

// Notification kinds produced by the system.
const (
	NotificationInvestment = "investment"
	NotificationPayment    = "payment"
	NotificationMilestone  = "milestone"
)

// Notification is a message shown to a user, written when an investment
// in one of their movies is confirmed.
//
// Fields:
//  ID        – primary key identifier (UUID string).
//  UserID    – recipient.
//  Message   – human readable text.
//  Type      – one of the Notification* constants.
//  Read      – whether the user has seen it.
//  CreatedAt – creation timestamp.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Message   string    `json:"message" bson:"message"`
	Type      string    `json:"type" bson:"type"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
