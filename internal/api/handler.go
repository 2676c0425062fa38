package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/allocation"
	"hostel-allotment-backend/internal/ledger"
	"hostel-allotment-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	svc     *allocation.Service
	cache   *cache.Cache
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *allocation.Service, cacheStore *cache.Cache, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		svc:     svc,
		cache:   cacheStore,
		webpush: webpushOptions,
	}
}

// flushCache drops all cached GET responses after a mutation so listings
// reflect the new assignment state immediately.
func (h *Handler) flushCache() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

// abortWithError maps a domain error onto an HTTP status.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, allocation.ErrInvalidInput),
		errors.Is(err, allocation.ErrTypeMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, allocation.ErrScopeViolation):
		status = http.StatusForbidden
	case errors.Is(err, allocation.ErrUserNotFound),
		errors.Is(err, allocation.ErrRequestNotFound),
		errors.Is(err, ledger.ErrHostelNotFound),
		errors.Is(err, ledger.ErrRoomNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, allocation.ErrDuplicateActiveRequest),
		errors.Is(err, allocation.ErrRequestNotPending),
		errors.Is(err, ledger.ErrCapacityExceeded),
		errors.Is(err, ledger.ErrWardenAssigned),
		errors.Is(err, ledger.ErrWardenNotAssigned),
		errors.Is(err, gorm.ErrDuplicatedKey):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak persistence internals; the operation is safe to retry.
		msg = "persistence error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
