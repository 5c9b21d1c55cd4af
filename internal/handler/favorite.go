package handler

import (
	"net/http"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FavoriteHandler covers bookmarked ads. Every query is scoped to the
// acting user.
type FavoriteHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewFavoriteHandler(db *gorm.DB, pageSize int) *FavoriteHandler {
	return &FavoriteHandler{DB: db, PageSize: pageSize}
}

func favoriteResp(f *models.Favorite) gin.H {
	return gin.H{
		"id":         f.ID,
		"user":       f.UserID,
		"ad":         f.AdID,
		"created_at": f.CreatedAt,
	}
}

// List returns the caller's favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offset, limit := pagination(c, h.PageSize)

	var favs []models.Favorite
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&favs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(favs))
	for i := range favs {
		items = append(items, favoriteResp(&favs[i]))
	}
	util.Success(c, util.Response{"favorites": items})
}

type createFavoriteReq struct {
	Ad uint `json:"ad" binding:"required"`
}

// Create bookmarks an ad. The pre-flight duplicate check gives the
// friendly message; the composite unique index settles concurrent
// creates.
func (h *FavoriteHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createFavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Ogłoszenie jest wymagane.")
		return
	}

	var adCount int64
	if err := h.DB.Model(&models.Ad{}).Where("id = ?", req.Ad).Count(&adCount).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if adCount == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Ogłoszenie nie zostało znalezione.")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND ad_id = ?", user.ID, req.Ad).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "To ogłoszenie jest już dodane do ulubionych.")
		return
	}

	fav := models.Favorite{UserID: user.ID, AdID: req.Ad}
	if err := h.DB.Create(&fav).Error; err != nil {
		// unique index fired on a concurrent duplicate
		if isUniqueViolation(err) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "To ogłoszenie jest już dodane do ulubionych.")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	util.Created(c, util.Response{"favorite": favoriteResp(&fav)})
}

// Get returns one of the caller's favorites; other users' rows are
// invisible.
func (h *FavoriteHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var fav models.Favorite
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&fav).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono ulubionego ogłoszenia.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	util.Success(c, util.Response{"favorite": favoriteResp(&fav)})
}

// Delete removes one of the caller's favorites by row id.
func (h *FavoriteHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Favorite{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono ulubionego ogłoszenia.")
		return
	}

	util.NoContent(c, "Ulubione ogłoszenie zostało usunięte pomyślnie.")
}

// DeleteByAd removes the caller's favorite for a given ad.
func (h *FavoriteHandler) DeleteByAd(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "ad_id")
	if !ok {
		return
	}

	res := h.DB.Where("user_id = ? AND ad_id = ?", user.ID, adID).Delete(&models.Favorite{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono ulubionego ogłoszenia.")
		return
	}

	util.NoContent(c, "Ulubione ogłoszenie zostało usunięte pomyślnie.")
}

// Check reports whether the caller has bookmarked an ad.
func (h *FavoriteHandler) Check(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "ad_id")
	if !ok {
		return
	}

	var count int64
	if err := h.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND ad_id = ?", user.ID, adID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	util.Success(c, util.Response{"is_favorite": count > 0})
}
