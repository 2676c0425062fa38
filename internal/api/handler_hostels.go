package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-allotment-backend/internal/model"
)

type createHostelRequest struct {
	Name     string `json:"hostel_name" binding:"required"`
	Location string `json:"location"`
}

// CreateHostel handles POST /api/hostels. Rooms (and with them capacity)
// are added separately through POST /api/rooms.
func (h *Handler) CreateHostel(c *gin.Context) {
	var req createHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hostel := model.Hostel{Name: req.Name, Location: req.Location}
	if err := h.store.CreateHostel(c.Request.Context(), &hostel); err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusCreated, hostel)
}

// GetHostels handles GET /api/hostels.
func (h *Handler) GetHostels(c *gin.Context) {
	hostels, err := h.store.ListHostels(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostels)
}

// GetAvailableHostels handles GET /api/available-hostels: hostels with
// spare capacity.
func (h *Handler) GetAvailableHostels(c *gin.Context) {
	hostels, err := h.store.ListAvailableHostels(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostels)
}

// GetAvailableRooms handles GET /api/hostels/:hostel_name/available-rooms.
func (h *Handler) GetAvailableRooms(c *gin.Context) {
	rooms, err := h.store.ListAvailableRooms(c.Request.Context(), c.Param("hostel_name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetHostelStudents handles GET /api/hostels/:hostel_name/students.
func (h *Handler) GetHostelStudents(c *gin.Context) {
	students, err := h.store.ListStudentsByHostel(c.Request.Context(), c.Param("hostel_name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

type wardenRequest struct {
	WardenEmail string `json:"warden_email" binding:"required,email"`
	ActingAdmin string `json:"acting_admin" binding:"required"`
}

// AssignWarden handles PUT /api/hostels/:hostel_name/assign-warden.
func (h *Handler) AssignWarden(c *gin.Context) {
	var req wardenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AssignWarden(c.Request.Context(), c.Param("hostel_name"), req.WardenEmail, req.ActingAdmin); err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, gin.H{"message": "Warden assigned successfully"})
}

// RemoveWarden handles PUT /api/hostels/:hostel_name/remove-warden.
func (h *Handler) RemoveWarden(c *gin.Context) {
	var req wardenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RemoveWarden(c.Request.Context(), c.Param("hostel_name"), req.WardenEmail, req.ActingAdmin); err != nil {
		abortWithError(c, err)
		return
	}
	h.flushCache()
	c.JSON(http.StatusOK, gin.H{"message": "Warden removed successfully"})
}
