package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostel-allotment-backend/internal/model"
)

type submitApplicationRequest struct {
	BITSID             string   `json:"bits_id" binding:"required"`
	HostelPreference   []string `json:"hostel_preference" binding:"required"`
	RoomTypePreference string   `json:"room_type_preference" binding:"required"`
}

// SubmitApplication handles POST /api/applications.
func (h *Handler) SubmitApplication(c *gin.Context) {
	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.SubmitRequest(c.Request.Context(), req.BITSID, req.HostelPreference, model.RoomType(req.RoomTypePreference))
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusCreated, created)
}

// GetPendingRequestsAdmin handles GET /api/pending-requests-admin.
func (h *Handler) GetPendingRequestsAdmin(c *gin.Context) {
	reqs, err := h.svc.ListPendingAdmin(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GetClosedRequestsAdmin handles GET /api/closed-requests-admin.
func (h *Handler) GetClosedRequestsAdmin(c *gin.Context) {
	reqs, err := h.svc.ListClosedAdmin(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GetPendingRequestsWarden handles GET /api/pending-requests-warden/:hostel_name.
func (h *Handler) GetPendingRequestsWarden(c *gin.Context) {
	reqs, err := h.svc.ListPendingWarden(c.Request.Context(), c.Param("hostel_name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GetClosedRequestsWarden handles GET /api/closed-requests-warden/:hostel_name.
func (h *Handler) GetClosedRequestsWarden(c *gin.Context) {
	reqs, err := h.svc.ListClosedWarden(c.Request.Context(), c.Param("hostel_name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return id, true
}

type assignHostelRequest struct {
	HostelName  string `json:"hostel_name" binding:"required"`
	ActingAdmin string `json:"acting_admin" binding:"required"`
}

// AssignHostel handles PUT /api/applications/:id/assign-hostel.
func (h *Handler) AssignHostel(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var req assignHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.AssignHostel(c.Request.Context(), id, req.HostelName, req.ActingAdmin)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, updated)
}

type adminActionRequest struct {
	ActingAdmin string `json:"acting_admin" binding:"required"`
}

// RejectHostel handles PUT /api/applications/:id/reject-hostel.
func (h *Handler) RejectHostel(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var req adminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.RejectHostel(c.Request.Context(), id, req.ActingAdmin)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, updated)
}

type assignRoomRequest struct {
	RoomNumber   string `json:"room_number" binding:"required"`
	ActingWarden string `json:"acting_warden" binding:"required"`
}

// AssignRoom handles PUT /api/applications/:id/assign-room.
func (h *Handler) AssignRoom(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var req assignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.AssignRoom(c.Request.Context(), id, req.RoomNumber, req.ActingWarden)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, updated)
}

type wardenActionRequest struct {
	ActingWarden string `json:"acting_warden" binding:"required"`
}

// RejectRoom handles PUT /api/applications/:id/reject-room.
func (h *Handler) RejectRoom(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}
	var req wardenActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.RejectRoom(c.Request.Context(), id, req.ActingWarden)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, updated)
}
