package assignment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
	"github.com/SmartBusLink/SmartBusLink/internal/common/middleware"
	"github.com/SmartBusLink/SmartBusLink/internal/user"
)

// Handler 排班 HTTP 接口。管理员面向全量排班，司机只能看到并响应
// 自己的排班。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterAdmin 管理员路由。
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/assignments", h.create)
	rg.GET("/assignments", h.list)
	rg.GET("/assignments/available-drivers", h.availableDrivers)
	rg.GET("/assignments/available-vehicles", h.availableVehicles)
	rg.GET("/assignments/:id", h.get)
	rg.PUT("/assignments/:id", h.update)
	rg.DELETE("/assignments/:id", h.delete)
	rg.POST("/drivers/:id/reset", h.resetDriver)
	rg.PUT("/drivers/:id/duty-status", h.setDutyStatus)
}

// RegisterDriver 司机路由。
func (h *Handler) RegisterDriver(rg *gin.RouterGroup) {
	rg.GET("/assignments", h.listMine)
	rg.GET("/assignments/:id", h.getMine)
	rg.POST("/assignments/:id/respond", h.respond)
}

type createRequest struct {
	DriverID      string `json:"driverId" binding:"required"`
	VehicleID     string `json:"vehicleId"`
	RouteID       string `json:"routeId" binding:"required"`
	DepotID       string `json:"depotId"`
	ServiceDay    string `json:"serviceDay" binding:"required"` // YYYY-MM-DD
	ScheduledTime string `json:"scheduledTime" binding:"required"`
	StartTime     string `json:"startTime"` // RFC3339，留空则按 serviceDay+scheduledTime 派生
	EndTime       string `json:"endTime"`   // RFC3339
	Notes         string `json:"notes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := parseDay(req.ServiceDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := CreateInput{
		DriverID:      req.DriverID,
		VehicleID:     req.VehicleID,
		RouteID:       req.RouteID,
		DepotID:       req.DepotID,
		ServiceDay:    day,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		AssignedBy:    c.GetString(middleware.CtxUserID),
	}
	if req.StartTime != "" {
		ts, err := parseStamp(req.StartTime, "startTime")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.StartTime = &ts
	}
	if req.EndTime != "" {
		ts, err := parseStamp(req.EndTime, "endTime")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.EndTime = &ts
	}
	a, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": a})
}

type updateRequest struct {
	DriverID      *string `json:"driverId"`
	VehicleID     *string `json:"vehicleId"`
	RouteID       *string `json:"routeId"`
	DepotID       *string `json:"depotId"`
	ServiceDay    *string `json:"serviceDay"`
	ScheduledTime *string `json:"scheduledTime"`
	StartTime     *string `json:"startTime"` // RFC3339
	EndTime       *string `json:"endTime"`   // RFC3339
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
	ClearEndTime  bool    `json:"clearEndTime"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := UpdateInput{
		DriverID:      req.DriverID,
		VehicleID:     req.VehicleID,
		RouteID:       req.RouteID,
		DepotID:       req.DepotID,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
		ClearEndTime:  req.ClearEndTime,
	}
	if req.ServiceDay != nil {
		day, err := parseDay(*req.ServiceDay)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.ServiceDay = &day
	}
	if req.StartTime != nil {
		ts, err := parseStamp(*req.StartTime, "startTime")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.StartTime = &ts
	}
	if req.EndTime != nil {
		ts, err := parseStamp(*req.EndTime, "endTime")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in.EndTime = &ts
	}
	if req.Status != nil {
		st := Status(*req.Status)
		in.Status = &st
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment deleted"})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		Status:   Status(c.Query("status")),
		DriverID: c.Query("driverId"),
		RouteID:  c.Query("routeId"),
	}
	if s := c.Query("serviceDay"); s != "" {
		day, err := parseDay(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f.Day = &day
	}
	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

func (h *Handler) availableDrivers(c *gin.Context) {
	day, err := parseDay(c.Query("serviceDay"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	drivers, err := h.svc.AvailableDrivers(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers, "count": len(drivers)})
}

func (h *Handler) availableVehicles(c *gin.Context) {
	day, err := parseDay(c.Query("serviceDay"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vehicles, err := h.svc.AvailableVehicles(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles, "count": len(vehicles)})
}

func (h *Handler) resetDriver(c *gin.Context) {
	cleared, err := h.svc.ResetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver reset", "clearedAssignmentId": cleared})
}

type dutyStatusRequest struct {
	DutyStatus string `json:"dutyStatus" binding:"required"`
}

func (h *Handler) setDutyStatus(c *gin.Context) {
	var req dutyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.SetDriverDutyStatus(c.Request.Context(), c.Param("id"), user.DutyStatus(req.DutyStatus))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "duty status updated"})
}

func (h *Handler) listMine(c *gin.Context) {
	f := ListFilter{
		Status:   Status(c.Query("status")),
		DriverID: c.GetString(middleware.CtxUserID),
	}
	if f.DriverID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

func (h *Handler) getMine(c *gin.Context) {
	driverID := c.GetString(middleware.CtxUserID)
	if driverID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	d, err := h.svc.GetForDriver(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": d})
}

type respondRequest struct {
	Accept   *bool  `json:"accept" binding:"required"`
	Response string `json:"response"`
}

func (h *Handler) respond(c *gin.Context) {
	driverID := c.GetString(middleware.CtxUserID)
	if driverID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.svc.Respond(c.Request.Context(), c.Param("id"), driverID, *req.Accept, req.Response)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// fail 按错误分类映射 HTTP 状态码。
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Errorf("assignment handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, invalidInputf("serviceDay must be YYYY-MM-DD")
	}
	return t, nil
}

func parseStamp(s, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalidInputf("%s must be RFC3339", field)
	}
	return t, nil
}
