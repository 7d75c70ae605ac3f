// api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/api/models"
	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/auth"
	"github.com/Annany2002/domain-ledger/internal/domain"
	"github.com/Annany2002/domain-ledger/internal/logger"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB  *sqlx.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *sqlx.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Register binding error: %v", err)
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		customLog.Warnf("Failed to hash password during registration for %s: %v", req.Username, err)
		_ = c.Error(err)
		return
	}

	user := &domain.User{Username: req.Username, Password: hashedPassword}
	if err := storage.CreateUser(c.Request.Context(), h.DB, user); err != nil {
		customLog.Warnf("Failed to create user %s: %v", req.Username, err)
		_ = c.Error(err) // ErrUsernameExists ends up as 409
		return
	}

	customLog.Printf("Successfully registered user %s", req.Username)
	c.JSON(http.StatusCreated, models.RegisterResponse{
		Status:  "success",
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// Login checks credentials and issues a JWT on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	user, err := storage.FindUserByUsername(c.Request.Context(), h.DB, req.Username)
	if err != nil {
		customLog.Warnf("Login failed for %s: %v", req.Username, err)
		if errors.Is(err, storage.ErrUserNotFound) {
			// Unknown users and wrong passwords look the same to the caller.
			err = storage.ErrInvalidCredentials
		}
		_ = c.Error(err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		customLog.Warnf("Login attempt failed for %s: invalid password", user.Username)
		_ = c.Error(storage.ErrInvalidCredentials)
		return
	}

	tokenString, err := auth.GenerateJWT(user.ID, user.Username, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", user.ID, err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{AccessToken: tokenString, TokenType: "Bearer"})
}
