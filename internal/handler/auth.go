package handler

import (
	"net/http"
	"time"

	"github.com/LukaszHolowacz/Marketplace/internal/config"
	"github.com/LukaszHolowacz/Marketplace/internal/lockout"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler issues and refreshes token pairs.
type AuthHandler struct {
	DB         *gorm.DB
	Lockout    *lockout.Tracker
	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, tracker *lockout.Tracker, cfg config.JWTConfig) *AuthHandler {
	accessMinutes := cfg.AccessExpireMinutes
	if accessMinutes <= 0 {
		accessMinutes = 60
	}
	refreshHours := cfg.RefreshExpireHours
	if refreshHours <= 0 {
		refreshHours = 24
	}
	return &AuthHandler{
		DB:         db,
		Lockout:    tracker,
		JWTSecret:  cfg.Secret,
		JWTIssuer:  cfg.Issuer,
		AccessTTL:  time.Duration(accessMinutes) * time.Minute,
		RefreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

type loginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns an access/refresh pair.
//
// Order matters: the lockout tracker is consulted before any lookup so a
// blocked caller learns nothing about the account, and the active flag
// is checked after the password so a disabled account never gets a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Login i hasło są wymagane.")
		return
	}

	addr := c.ClientIP()

	if !h.Lockout.IsAllowed(addr, req.Login) {
		util.Error(c, http.StatusUnauthorized, util.CodeRateLimited, "Za dużo nieudanych prób logowania. Spróbuj później.")
		return
	}

	// an identifier shaped like an email is matched against the email
	// column, anything else against the username
	var user models.User
	query := h.DB.Where("username = ?", req.Login)
	if util.IsEmailIdentifier(req.Login) {
		query = h.DB.Where("email = ?", req.Login)
	}
	if err := query.First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			h.Lockout.RecordFailure(addr, req.Login)
			// TODO: collapse this and the wrong-password message into one
			// generic response so logins stop leaking which accounts exist
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Nie znaleziono użytkownika.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Lockout.RecordFailure(addr, req.Login)
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Niepoprawne hasło.")
		return
	}

	// correct credentials for a disabled account: distinct 400, no token
	if !user.IsActive {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Konto użytkownika jest zablokowane.")
		return
	}

	h.Lockout.RecordSuccess(addr, req.Login)

	access, refresh, err := util.GenerateTokenPair(h.JWTSecret, h.JWTIssuer, user.ID, h.AccessTTL, h.RefreshTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się wygenerować tokenu.")
		return
	}

	util.Success(c, util.Response{
		"access":  access,
		"refresh": refresh,
	})
}

type refreshReq struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Refresh exchanges a refresh token for a new access token. The account
// must still exist and be active.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Token odświeżania jest wymagany.")
		return
	}

	claims, err := util.ParseToken(h.JWTSecret, req.Refresh)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token jest niepoprawny lub wygasł.")
		return
	}

	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Użytkownik nie istnieje.")
		return
	}
	if !user.IsActive {
		util.Error(c, http.StatusBadRequest, util.CodeForbidden, "Konto użytkownika jest zablokowane.")
		return
	}

	access, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.ID, util.TokenTypeAccess, h.AccessTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się wygenerować tokenu.")
		return
	}

	util.Success(c, util.Response{
		"access": access,
	})
}
