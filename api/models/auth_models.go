// api/models/auth_models.go
package models

// --- Auth Request/Response Structs ---

// RegisterRequest defines the structure for the register request body.
// bcrypt only looks at the first 72 bytes of a password, so longer ones are refused.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// RegisterResponse defines the structure for the register response body
type RegisterResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	RoleID   *int64 `json:"role_id"`
}
