package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey is the gin context key the authenticated user is stored
// under.
const CurrentUserKey = "currentUser"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func loadTokenUser(c *gin.Context, jwtSecret string, db *gorm.DB) (*models.User, bool) {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Brak danych uwierzytelniających.")
		return nil, false
	}

	claims, err := util.ParseToken(jwtSecret, tokenStr)
	if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token jest niepoprawny lub wygasł.")
		return nil, false
	}
	// refresh tokens only work against the refresh endpoint
	if claims.TokenType != util.TokenTypeAccess {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Token jest niepoprawny lub wygasł.")
		return nil, false
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Użytkownik nie istnieje.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return nil, false
	}
	return &user, true
}

// AuthMiddleware validates the access token, loads the account and puts
// it in the context. The active-account gate runs here too: a disabled
// account is rejected on every protected endpoint even when its token is
// still formally valid.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadTokenUser(c, jwtSecret, db)
		if !ok {
			c.Abort()
			return
		}

		if !user.IsActive {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Twoje konto jest zablokowane.")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the account when a valid token is
// attached and stays silent otherwise. Used by public endpoints whose
// response depends on who is asking, like the public profile view.
func OptionalAuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.TokenType != util.TokenTypeAccess {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err == nil {
			c.Set(CurrentUserKey, &user)
		}
		c.Next()
	}
}
