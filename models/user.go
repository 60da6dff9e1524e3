package models

import "time"

// User is a client who books fundis. Conversations are keyed by phone number,
// so a user record may exist before the client ever registers through the app.
type User struct {
	ID        string    `bson:"id" json:"id,omitempty"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`
	Security  Security  `bson:"security" json:"security,omitzero"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}
