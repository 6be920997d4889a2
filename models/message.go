package models

// SendMessageRequest is the payload sent by the frontend for one chat turn
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}
