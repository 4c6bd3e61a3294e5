package request

type SendMessageRequest struct {
	RecipientId string `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"messageType" binding:"omitempty,oneof=TEXT IMAGE FILE"`
}
