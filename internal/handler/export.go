package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler dumps the caller's own ads to CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Tytuł", "Cena (zł)", "Kategoria", "Miasto", "Aktywne", "Data dodania"}

func (h *ExportHandler) ownAds(c *gin.Context) ([]models.Ad, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var ads []models.Ad
	if err := h.DB.Preload("Category").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&ads).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return nil, false
	}
	return ads, true
}

func exportRow(ad *models.Ad) []string {
	active := "nie"
	if ad.IsActive {
		active = "tak"
	}
	return []string{
		ad.Title,
		util.FormatPrice(ad.PriceGr),
		ad.Category.Name,
		ad.City,
		active,
		ad.CreatedAt.Format("2006-01-02"),
	}
}

// ExportCSV streams the caller's ads as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	ads, ok := h.ownAds(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ogloszenia_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps pick up the Polish characters
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range ads {
		writer.Write(exportRow(&ads[i]))
	}
}

// ExportXLSX streams the caller's ads as an XLSX workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	ads, ok := h.ownAds(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Ogłoszenia"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się utworzyć arkusza.")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range ads {
		row := idx + 2
		for col, value := range exportRow(&ads[idx]) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "D", 15)
	f.SetColWidth(sheetName, "E", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ogloszenia_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Eksport nie powiódł się.")
	}
}
