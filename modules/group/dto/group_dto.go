package dto

// EnsureGroupRequest promotes a slot's bookings into a group
type EnsureGroupRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
}

// GroupResult identifies the group and its conversation
type GroupResult struct {
	GroupID        string `json:"groupId"`
	ConversationID string `json:"conversationId"`
}
