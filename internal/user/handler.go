package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SmartBusLink/SmartBusLink/internal/common/auth"
	"github.com/SmartBusLink/SmartBusLink/internal/common/config"
	"github.com/SmartBusLink/SmartBusLink/internal/common/logger"
)

// Handler 账号相关 HTTP 接口：登录签发 JWT，管理员录入司机账号。
type Handler struct {
	repo    *Repo
	authCfg config.AuthConfig
	log     logger.Logger
}

func NewHandler(repo *Repo, authCfg config.AuthConfig, log logger.Logger) *Handler {
	return &Handler{repo: repo, authCfg: authCfg, log: log}
}

// RegisterPublic 无需鉴权的路由。
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
}

// RegisterAdmin 管理员路由。
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/drivers", h.createDriver)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.log.Errorf("login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if u == nil || !u.IsActive || !VerifyPassword(req.Password, u.PasswordSalt, u.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	ttl := time.Duration(h.authCfg.AccessTTLHours) * time.Hour
	token, expiresAt, err := auth.GenerateAccessToken(h.authCfg, u.ID, string(u.UserType), ttl)
	if err != nil {
		h.log.Errorf("issue token failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"user":      u,
	})
}

type createDriverRequest struct {
	UserName      string `json:"userName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	Password      string `json:"password" binding:"required,min=8"`
	LicenseNumber string `json:"licenseNumber"`
	HomeDepotID   string `json:"homeDepotId"`
	VehicleID     string `json:"vehicleId"`
}

func (h *Handler) createDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	salt, err := GenerateSaltHex()
	if err != nil {
		h.log.Errorf("generate salt failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	hash, err := HashPassword(req.Password, salt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := &User{
		ID:            uuid.NewString(),
		UserType:      TypeDriver,
		UserName:      req.UserName,
		Email:         req.Email,
		Phone:         req.Phone,
		PasswordHash:  hash,
		PasswordSalt:  salt,
		LicenseNumber: req.LicenseNumber,
		HomeDepotID:   req.HomeDepotID,
		VehicleID:     req.VehicleID,
		DutyStatus:    DutyAvailable,
		IsActive:      true,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		h.log.Errorf("create driver failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": u})
}
