package handler

import (
	"net/http"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler exposes the audit trail to staff accounts.
type LogHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewLogHandler(db *gorm.DB, pageSize int) *LogHandler {
	return &LogHandler{DB: db, PageSize: pageSize}
}

// ListLogs returns the audit log, newest first, staff only.
func (h *LogHandler) ListLogs(c *gin.Context) {
	if _, ok := requireStaff(c); !ok {
		return
	}

	query := h.DB.Model(&models.AuditLog{})
	if userID := c.Query("user"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	offset, limit := pagination(c, h.PageSize)
	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		items = append(items, gin.H{
			"id":         entry.ID,
			"user":       entry.UserID,
			"method":     entry.Method,
			"path":       entry.Path,
			"ip":         entry.IP,
			"user_agent": entry.UserAgent,
			"created_at": entry.CreatedAt,
		})
	}

	util.Success(c, util.Response{"count": total, "logs": items})
}
