package dto

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
