package mq

import "time"

type SlotOpened struct {
	EventID string    `json:"event_id"`
	City    string    `json:"city"`
	Kind    string    `json:"kind"`
	Start   time.Time `json:"start"`
}

type BookingCreated struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	Day       string `json:"day"`
}

type BookingConfirmed struct {
	BookingID string `json:"booking_id"`
	EventID   string `json:"event_id"`
}

type GroupFormed struct {
	GroupID        string   `json:"group_id"`
	ConversationID string   `json:"conversation_id"`
	EventID        string   `json:"event_id"`
	MemberIDs      []string `json:"member_ids"`
}
