package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler manages the category tree. Reads are public, writes
// are staff only.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases, replaces runs of non-alphanumerics with a dash
// and trims the ends.
func slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug appends -1, -2, ... until the slug is free.
func (h *CategoryHandler) uniqueSlug(base string) (string, error) {
	if base == "" {
		base = "kategoria"
	}
	slug := base
	for counter := 1; ; counter++ {
		var count int64
		if err := h.DB.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func categoryResp(cat *models.Category) gin.H {
	return gin.H{
		"id":     cat.ID,
		"name":   cat.Name,
		"slug":   cat.Slug,
		"parent": cat.ParentID,
	}
}

func requireStaff(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsStaff {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Brak uprawnień.")
		return nil, false
	}
	return user, true
}

// List returns categories, optionally filtered by parent id.
func (h *CategoryHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Category{}).Order("name ASC")
	if parent := c.Query("parent"); parent != "" {
		query = query.Where("parent_id = ?", parent)
	}

	var cats []models.Category
	if err := query.Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(cats))
	for i := range cats {
		items = append(items, categoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"categories": items})
}

// Get returns a single category.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Kategoria nie została znaleziona.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}
	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

type categoryReq struct {
	Name   string `json:"name" binding:"required,max=100"`
	Parent *uint  `json:"parent"`
}

// Create adds a category, deriving a unique slug from the name.
func (h *CategoryHandler) Create(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Nazwa kategorii jest wymagana.")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Category{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Kategoria o tej nazwie już istnieje.")
		return
	}

	slug, err := h.uniqueSlug(slugify(req.Name))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	cat := models.Category{Name: req.Name, Slug: slug, ParentID: req.Parent}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się utworzyć kategorii.")
		return
	}

	util.Created(c, util.Response{"category": categoryResp(&cat)})
}

// Update renames a category or moves it in the tree. The slug is stable.
func (h *CategoryHandler) Update(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Kategoria nie została znaleziona.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Nazwa kategorii jest wymagana.")
		return
	}

	// renaming onto another category's name would trip the unique index
	var count int64
	if err := h.DB.Model(&models.Category{}).
		Where("name = ? AND id <> ?", req.Name, cat.ID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Kategoria o tej nazwie już istnieje.")
		return
	}

	cat.Name = req.Name
	cat.ParentID = req.Parent
	if err := h.DB.Save(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać kategorii.")
		return
	}

	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

// Delete removes a category and, through the cascade, its subtree.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res := h.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się usunąć kategorii.")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Kategoria nie została znaleziona.")
		return
	}

	util.NoContent(c, "Kategoria została usunięta.")
}
