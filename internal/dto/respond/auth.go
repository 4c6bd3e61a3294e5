package respond

// AuthRespond is returned by register, login and refresh.
type AuthRespond struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	User         UserInfo `json:"user"`
}
