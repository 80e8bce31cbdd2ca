package domain

import "time"

// Message is a note sent from one office to another, optionally referencing
// a parcel by id (weak reference, no ownership). ReadAt is nil until the
// receiving office marks the message read.
type Message struct {
	ID              string
	FromOfficeID    string
	ToOfficeID      string
	FromUserID      string
	Subject         string
	Content         string
	RelatedParcelID *string
	ReadAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Display references resolved by the repository on read.
	FromOffice    *OfficeRef
	ToOffice      *OfficeRef
	FromUser      *UserRef
	RelatedParcel *ParcelRef
}

// OfficeRef carries the display fields of an office joined onto a message.
type OfficeRef struct {
	ID      string
	Name    string
	Country string
}

// UserRef carries the display fields of a user joined onto a message.
type UserRef struct {
	ID       string
	FullName string
	Email    string
}

// ParcelRef is the summary of a parcel referenced by a message.
type ParcelRef struct {
	ID           string
	SenderName   string
	ReceiverName string
	Destination  string
	Status       string
}
