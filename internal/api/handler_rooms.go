package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-allotment-backend/internal/model"
)

type createRoomRequest struct {
	HostelName string `json:"hostel_name" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=single double triple"`
}

// CreateRoom handles POST /api/rooms. The room's capacity follows from its
// type and is folded into the parent hostel's totals.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt := model.RoomType(req.Type)
	room := model.Room{
		HostelName: req.HostelName,
		RoomNumber: req.RoomNumber,
		Type:       rt,
		Capacity:   rt.Capacity(),
	}
	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusCreated, room)
}
