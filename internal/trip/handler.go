package trip

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/common/middleware"
)

// Handler 司机行程 HTTP 接口。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterDriver 司机路由。
func (h *Handler) RegisterDriver(rg *gin.RouterGroup) {
	rg.POST("/trips/start", h.start)
	rg.POST("/trips/:id/pause", h.pause)
	rg.POST("/trips/:id/resume", h.resume)
	rg.POST("/trips/:id/end", h.end)
	rg.GET("/trips", h.history)
}

func (h *Handler) driverID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.CtxUserID)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return "", false
	}
	return id, true
}

func (h *Handler) start(c *gin.Context) {
	driverID, ok := h.driverID(c)
	if !ok {
		return
	}
	t, err := h.svc.Start(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": t})
}

type pauseRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) pause(c *gin.Context) {
	driverID, ok := h.driverID(c)
	if !ok {
		return
	}
	var req pauseRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Pause(c.Request.Context(), c.Param("id"), driverID, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

func (h *Handler) resume(c *gin.Context) {
	driverID, ok := h.driverID(c)
	if !ok {
		return
	}
	t, err := h.svc.Resume(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

type endRequest struct {
	PassengerCount int `json:"passengerCount"`
}

func (h *Handler) end(c *gin.Context) {
	driverID, ok := h.driverID(c)
	if !ok {
		return
	}
	var req endRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.End(c.Request.Context(), c.Param("id"), driverID, req.PassengerCount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

func (h *Handler) history(c *gin.Context) {
	driverID, ok := h.driverID(c)
	if !ok {
		return
	}
	trips, err := h.svc.History(c.Request.Context(), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips, "count": len(trips)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("trip handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
