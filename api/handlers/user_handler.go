package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Annany2002/domain-ledger/api/models"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

// UserHandler serves user lookups.
type UserHandler struct {
	DB *sqlx.DB
}

func NewUserHandler(db *sqlx.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetUser handles GET /api/user/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := storage.FindUserByID(c.Request.Context(), h.DB, id)
	if err != nil {
		customLog.Warnf("User lookup for %s failed: %v", id, err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{ID: user.ID, Username: user.Username, RoleID: user.RoleID})
}
