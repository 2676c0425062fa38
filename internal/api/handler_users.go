package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-allotment-backend/internal/model"
)

type createUserRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	BITSID        string `json:"bits_id" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Role          string `json:"role" binding:"required,oneof=student warden admin"`
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := model.User{
		Name:          req.Name,
		Email:         req.Email,
		BITSID:        req.BITSID,
		ContactNumber: req.ContactNumber,
		Role:          model.Role(req.Role),
		RegisteredAt:  time.Now().UTC(),
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /api/users/:email.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetWardens handles GET /api/wardens.
func (h *Handler) GetWardens(c *gin.Context) {
	wardens, err := h.store.ListWardens(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wardens)
}

// GetWardensForAssign handles GET /api/wardens-for-assign: wardens not yet
// in charge of a hostel.
func (h *Handler) GetWardensForAssign(c *gin.Context) {
	wardens, err := h.store.ListUnassignedWardens(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wardens)
}
