package domain

import "time"

// User is the application profile record, created lazily on first successful
// phone verification. Profile fields are owned by profile management after
// creation; this service never updates or deletes a user.
type User struct {
	PhoneNumber    string    `json:"phone_number"`
	Verified       bool      `json:"verified"`
	DisplayName    string    `json:"display_name"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser returns the default profile for a freshly verified phone number.
func NewUser(phoneNumber string, now time.Time) *User {
	return &User{
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
	}
}
