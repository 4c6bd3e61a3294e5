// Package request defines the JSON bodies accepted by the HTTP API.
// Validation tags are enforced by the shared validator in the handler layer.
package request

// RegisterRequest creates a new account. The email must belong to the
// university domain and the pin is a 4 digit quick-access code.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,kiuemail"`
	Username    string `json:"username" binding:"required,min=3,max=30,username"`
	FirstName   string `json:"firstName" binding:"required,max=50"`
	LastName    string `json:"lastName" binding:"required,max=50"`
	Password    string `json:"password" binding:"required,min=6"`
	Pin         string `json:"pin" binding:"required,len=4,numeric"`
	Major       string `json:"major" binding:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" binding:"required"`
	StartYear   int    `json:"startYear" binding:"required,startyear"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// QuickLoginRequest re-validates the pin of an already authenticated user.
type QuickLoginRequest struct {
	Pin string `json:"pin" binding:"required,len=4,numeric"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
