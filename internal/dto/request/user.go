package request

// UpdateProfileRequest carries the editable profile fields; empty strings
// leave the stored value untouched.
type UpdateProfileRequest struct {
	FirstName      string `json:"firstName" binding:"omitempty,max=50"`
	LastName       string `json:"lastName" binding:"omitempty,max=50"`
	Major          string `json:"major" binding:"omitempty,max=100"`
	Bio            string `json:"bio" binding:"omitempty,max=500"`
	ProfilePicture string `json:"profilePicture" binding:"omitempty,max=500"`
}
