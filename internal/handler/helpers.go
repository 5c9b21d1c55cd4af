package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LukaszHolowacz/Marketplace/internal/middleware"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-sqlite3"
)

// currentUser pulls the authenticated account out of the gin context and
// writes the 401 itself when it is missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Brak danych uwierzytelniających.")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Brak danych uwierzytelniających.")
		return nil, false
	}
	return user, true
}

// optionalUser is like currentUser but never writes a response.
func optionalUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// isUniqueViolation reports whether err is a unique-index violation, as
// opposed to any other storage failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "ID nie jest poprawne.")
		return 0, false
	}
	return uint(id), true
}

// pagination reads page/page_size query params with the configured
// default size, capped at 100.
func pagination(c *gin.Context, defaultSize int) (offset, limit int) {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if size <= 0 || size > 100 {
		size = defaultSize
	}
	return (page - 1) * size, size
}
