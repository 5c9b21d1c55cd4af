package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/LukaszHolowacz/Marketplace/internal/authz"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdHandler covers the classified listing endpoints.
type AdHandler struct {
	DB        *gorm.DB
	UploadDir string
	MinPrice  string // configured floor, zł string; empty disables the check
	PageSize  int
}

func NewAdHandler(db *gorm.DB, uploadDir, minPrice string, pageSize int) *AdHandler {
	return &AdHandler{DB: db, UploadDir: uploadDir, MinPrice: minPrice, PageSize: pageSize}
}

type adReq struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
	Category    uint   `json:"category" form:"category"`
	City        string `json:"city" form:"city"`
	Street      string `json:"street" form:"street"`
	PostalCode  string `json:"postal_code" form:"postal_code"`
}

func adResp(ad *models.Ad) gin.H {
	return gin.H{
		"id":          ad.ID,
		"title":       ad.Title,
		"description": ad.Description,
		"price":       util.FormatPrice(ad.PriceGr),
		"is_active":   ad.IsActive,
		"image":       ad.Image,
		"user":        ad.UserID,
		"category":    ad.CategoryID,
		"city":        ad.City,
		"street":      ad.Street,
		"postal_code": ad.PostalCode,
		"created_at":  ad.CreatedAt,
		"updated_at":  ad.UpdatedAt,
	}
}

// validateAd runs every field rule and collects the failures. The floor
// check only applies when a floor is configured.
func (h *AdHandler) validateAd(req *adReq) (int64, util.FieldErrors) {
	errs := util.FieldErrors{}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		errs["title"] = "Tytuł jest wymagany."
	} else if len(req.Title) > 255 {
		errs["title"] = "Tytuł nie może przekraczać 255 znaków."
	}

	var priceGr int64
	if req.Price == "" {
		errs["price"] = "Cena jest wymagana."
	} else {
		var err error
		priceGr, err = util.ParsePrice(req.Price)
		switch {
		case err != nil, priceGr <= 0:
			errs["price"] = "Cena musi być większa niż 0."
		case h.MinPrice != "":
			if floor, ferr := util.ParsePrice(h.MinPrice); ferr == nil && priceGr < floor {
				errs["price"] = fmt.Sprintf("Cena nie może być niższa niż %s.", h.MinPrice)
			}
		}
	}

	if req.Category == 0 {
		errs["category"] = "Kategoria jest wymagana."
	} else {
		var count int64
		if err := h.DB.Model(&models.Category{}).Where("id = ?", req.Category).Count(&count).Error; err == nil && count == 0 {
			errs["category"] = "Kategoria nie została znaleziona."
		}
	}

	return priceGr, errs
}

func (h *AdHandler) bindAd(c *gin.Context, req *adReq) bool {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
			return false
		}
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
		return false
	}
	return true
}

func (h *AdHandler) saveImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image attached
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.UploadDir, "ads", "images", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return "/media/ads/images/" + name, nil
}

// List returns active ads with filtering, search, ordering and
// pagination.
func (h *AdHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Ad{}).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if min := c.Query("price_min"); min != "" {
		if gr, err := util.ParsePrice(min); err == nil {
			query = query.Where("price_gr >= ?", gr)
		}
	}
	if max := c.Query("price_max"); max != "" {
		if gr, err := util.ParsePrice(max); err == nil {
			query = query.Where("price_gr <= ?", gr)
		}
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	// ordering whitelist, "-" prefix for descending
	order := "created_at DESC"
	switch c.Query("ordering") {
	case "price":
		order = "price_gr ASC"
	case "-price":
		order = "price_gr DESC"
	case "created_at":
		order = "created_at ASC"
	case "-created_at":
		order = "created_at DESC"
	case "updated_at":
		order = "updated_at ASC"
	case "-updated_at":
		order = "updated_at DESC"
	}
	query = query.Order(order)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	offset, limit := pagination(c, h.PageSize)
	var ads []models.Ad
	if err := query.Offset(offset).Limit(limit).Find(&ads).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(ads))
	for i := range ads {
		items = append(items, adResp(&ads[i]))
	}
	util.Success(c, util.Response{"count": total, "ads": items})
}

// Create adds a listing owned by the caller.
func (h *AdHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req adReq
	if !h.bindAd(c, &req) {
		return
	}

	priceGr, errs := h.validateAd(&req)
	if len(errs) > 0 {
		util.ValidationError(c, errs)
		return
	}

	image, err := h.saveImage(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać pliku.")
		return
	}

	ad := models.Ad{
		Title:       req.Title,
		Description: req.Description,
		PriceGr:     priceGr,
		IsActive:    true,
		Image:       image,
		UserID:      user.ID,
		CategoryID:  req.Category,
		City:        req.City,
		Street:      req.Street,
		PostalCode:  req.PostalCode,
	}
	if err := h.DB.Create(&ad).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać ogłoszenia.")
		return
	}

	util.Created(c, util.Response{"ad": adResp(&ad)})
}

func (h *AdHandler) fetch(c *gin.Context) (*models.Ad, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	var ad models.Ad
	if err := h.DB.First(&ad, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Ogłoszenie nie zostało znalezione.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return nil, false
	}
	return &ad, true
}

// Get returns a single listing, inactive ones included.
func (h *AdHandler) Get(c *gin.Context) {
	ad, ok := h.fetch(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"ad": adResp(ad)})
}

// Update replaces the mutable fields of an owned listing.
func (h *AdHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ad, ok := h.fetch(c)
	if !ok {
		return
	}

	allowed := authz.Allowed(
		authz.Actor{ID: user.ID, IsStaff: user.IsStaff},
		authz.Resource{Kind: authz.KindAd, OwnerID: ad.UserID},
		authz.OpUpdate,
	)
	if !allowed {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Nie masz uprawnień do edycji tego ogłoszenia.")
		return
	}

	var req adReq
	if !h.bindAd(c, &req) {
		return
	}

	priceGr, errs := h.validateAd(&req)
	if len(errs) > 0 {
		util.ValidationError(c, errs)
		return
	}

	if image, err := h.saveImage(c); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać pliku.")
		return
	} else if image != "" {
		ad.Image = image
	}

	ad.Title = req.Title
	ad.Description = req.Description
	ad.PriceGr = priceGr
	ad.CategoryID = req.Category
	ad.City = req.City
	ad.Street = req.Street
	ad.PostalCode = req.PostalCode

	if err := h.DB.Save(ad).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać ogłoszenia.")
		return
	}

	util.Success(c, util.Response{"ad": adResp(ad)})
}

// Delete removes an owned listing.
func (h *AdHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ad, ok := h.fetch(c)
	if !ok {
		return
	}

	allowed := authz.Allowed(
		authz.Actor{ID: user.ID, IsStaff: user.IsStaff},
		authz.Resource{Kind: authz.KindAd, OwnerID: ad.UserID},
		authz.OpDelete,
	)
	if !allowed {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Nie masz uprawnień do usunięcia tego ogłoszenia.")
		return
	}

	if err := h.DB.Delete(ad).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się usunąć ogłoszenia.")
		return
	}

	util.NoContent(c, "Ogłoszenie zostało usunięte.")
}

// ToggleActive flips the listing's visibility. Only the owner may do
// it; anyone else gets an explicit 403.
func (h *AdHandler) ToggleActive(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ad, ok := h.fetch(c)
	if !ok {
		return
	}

	allowed := authz.Allowed(
		authz.Actor{ID: user.ID, IsStaff: user.IsStaff},
		authz.Resource{Kind: authz.KindAd, OwnerID: ad.UserID},
		authz.OpToggleActive,
	)
	if !allowed {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Nie masz uprawnień do zmiany statusu tego ogłoszenia.")
		return
	}

	ad.IsActive = !ad.IsActive
	if err := h.DB.Save(ad).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać ogłoszenia.")
		return
	}

	util.Success(c, util.Response{
		"message":   "Status ogłoszenia został zmieniony.",
		"is_active": ad.IsActive,
	})
}

func (h *AdHandler) listWhere(c *gin.Context, cond string, arg interface{}) {
	offset, limit := pagination(c, h.PageSize)

	var ads []models.Ad
	if err := h.DB.Where("is_active = ?", true).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&ads).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(ads))
	for i := range ads {
		items = append(items, adResp(&ads[i]))
	}
	util.Success(c, util.Response{"ads": items})
}

// ByCategory lists active ads in a category.
func (h *AdHandler) ByCategory(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	h.listWhere(c, "category_id = ?", id)
}

// ByUser lists a user's active ads.
func (h *AdHandler) ByUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	h.listWhere(c, "user_id = ?", id)
}
