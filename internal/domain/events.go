package domain

import "time"

// Realtime event names. Delivery is fire-and-forget: a connection not joined
// to the target room at publish time never receives the event and there is no
// replay. The registries' list/get operations remain the source of truth.
const (
	EventNewParcel        = "new_parcel"
	EventNewMessage       = "new_message"
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
	EventPresenceUpdate   = "presence_update"
)

// NewParcelEvent is published to the destination office's room when a parcel
// is created.
type NewParcelEvent struct {
	ParcelID            string `json:"parcelId"`
	SenderName          string `json:"senderName"`
	Destination         string `json:"destination"`
	OriginOfficeID      string `json:"originOfficeId"`
	DestinationOfficeID string `json:"destinationOfficeId"`
}

// NewMessageEvent is the fully resolved message published to the receiving
// office's room.
type NewMessageEvent struct {
	ID              string          `json:"id"`
	FromOfficeID    string          `json:"fromOfficeId"`
	ToOfficeID      string          `json:"toOfficeId"`
	FromUserID      string          `json:"fromUserId"`
	Subject         string          `json:"subject"`
	Content         string          `json:"content"`
	RelatedParcelID *string         `json:"relatedParcelId"`
	ReadAt          *time.Time      `json:"readAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	FromOffice      *OfficeRefEvent `json:"fromOffice"`
	ToOffice        *OfficeRefEvent `json:"toOffice"`
	FromUser        *UserRefEvent   `json:"fromUser"`
	RelatedParcel   *ParcelRefEvent `json:"relatedParcel"`
}

type OfficeRefEvent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type UserRefEvent struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type ParcelRefEvent struct {
	ID           string `json:"id"`
	SenderName   string `json:"senderName"`
	ReceiverName string `json:"receiverName"`
	Destination  string `json:"destination"`
	Status       string `json:"status"`
}

// MessageEvent builds the published payload from a resolved message.
func MessageEvent(m *Message) NewMessageEvent {
	ev := NewMessageEvent{
		ID:              m.ID,
		FromOfficeID:    m.FromOfficeID,
		ToOfficeID:      m.ToOfficeID,
		FromUserID:      m.FromUserID,
		Subject:         m.Subject,
		Content:         m.Content,
		RelatedParcelID: m.RelatedParcelID,
		ReadAt:          m.ReadAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.FromOffice != nil {
		ev.FromOffice = &OfficeRefEvent{ID: m.FromOffice.ID, Name: m.FromOffice.Name, Country: m.FromOffice.Country}
	}
	if m.ToOffice != nil {
		ev.ToOffice = &OfficeRefEvent{ID: m.ToOffice.ID, Name: m.ToOffice.Name, Country: m.ToOffice.Country}
	}
	if m.FromUser != nil {
		ev.FromUser = &UserRefEvent{ID: m.FromUser.ID, FullName: m.FromUser.FullName, Email: m.FromUser.Email}
	}
	if m.RelatedParcel != nil {
		ev.RelatedParcel = &ParcelRefEvent{
			ID:           m.RelatedParcel.ID,
			SenderName:   m.RelatedParcel.SenderName,
			ReceiverName: m.RelatedParcel.ReceiverName,
			Destination:  m.RelatedParcel.Destination,
			Status:       m.RelatedParcel.Status,
		}
	}
	return ev
}

// UserConnectedEvent is broadcast when a user's first signal arrives on a
// connection; UserDisconnectedEvent when a user's last connection drops.
type UserConnectedEvent struct {
	UserID string `json:"userId"`
}

type UserDisconnectedEvent struct {
	UserID string `json:"userId"`
}

// PresenceUpdateEvent carries the distinct set of currently online user ids.
type PresenceUpdateEvent struct {
	OnlineUserIDs []string `json:"onlineUserIds"`
}
