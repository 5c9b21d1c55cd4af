package handler

import (
	"net/http"
	"strings"

	"github.com/LukaszHolowacz/Marketplace/internal/authz"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MessageHandler covers direct messaging about ads.
type MessageHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewMessageHandler(db *gorm.DB, pageSize int) *MessageHandler {
	return &MessageHandler{DB: db, PageSize: pageSize}
}

func messageResp(m *models.Message) gin.H {
	return gin.H{
		"id":        m.ID,
		"sender":    m.Sender.Username,
		"recipient": m.Recipient.Username,
		"ad":        m.Ad.Title,
		"content":   m.Content,
		"timestamp": m.CreatedAt,
		"is_read":   m.IsRead,
	}
}

// List returns the caller's conversations, newest first.
func (h *MessageHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	offset, limit := pagination(c, h.PageSize)

	var msgs []models.Message
	if err := h.DB.Preload("Sender").Preload("Recipient").Preload("Ad").
		Where("sender_id = ? OR recipient_id = ?", user.ID, user.ID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResp(&msgs[i]))
	}
	util.Success(c, util.Response{"messages": items})
}

type createMessageReq struct {
	Content string `json:"content"`
}

// CreateByAd sends a message about an ad to its owner. A missing ad and
// an ad whose owner is disabled look the same from outside: 404.
func (h *MessageHandler) CreateByAd(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	adID, ok := pathID(c, "ad_id")
	if !ok {
		return
	}

	var ad models.Ad
	if err := h.DB.Preload("User").First(&ad, adID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Ogłoszenie nie zostało znalezione.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}
	if !ad.User.IsActive {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Ogłoszenie nie zostało znalezione.")
		return
	}

	var req createMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
		return
	}
	req.Content = strings.TrimSpace(req.Content)

	switch {
	case req.Content == "":
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Treść wiadomości jest wymagana.")
		return
	case !ad.IsActive:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Ogłoszenie jest nieaktywne.")
		return
	case user.ID == ad.UserID:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Nie możesz wysłać wiadomości do siebie.")
		return
	}

	msg := models.Message{
		SenderID:    user.ID,
		RecipientID: ad.UserID,
		AdID:        ad.ID,
		Content:     req.Content,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się wysłać wiadomości.")
		return
	}

	msg.Sender = *user
	msg.Recipient = ad.User
	msg.Ad = ad
	util.Created(c, util.Response{"message": messageResp(&msg)})
}

// Get returns a message the caller participates in; anything else is a
// 404, never a 403, so message IDs cannot be probed.
func (h *MessageHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var msg models.Message
	if err := h.DB.Preload("Sender").Preload("Recipient").Preload("Ad").
		Where("id = ? AND (sender_id = ? OR recipient_id = ?)", id, user.ID, user.ID).
		First(&msg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono wiadomości.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	util.Success(c, util.Response{"message": messageResp(&msg)})
}

// Delete soft-deletes a message for both sides. Sender and recipient may
// both do it.
func (h *MessageHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var msg models.Message
	if err := h.DB.First(&msg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono wiadomości.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	allowed := authz.Allowed(
		authz.Actor{ID: user.ID, IsStaff: user.IsStaff},
		authz.Resource{Kind: authz.KindMessage, SenderID: msg.SenderID, RecipientID: msg.RecipientID},
		authz.OpDelete,
	)
	if !allowed {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono wiadomości.")
		return
	}

	if err := h.DB.Delete(&msg).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się usunąć wiadomości.")
		return
	}

	util.NoContent(c, "Wiadomość została usunięta.")
}

// MarkRead flips is_read. Only the recipient may do it; a wrong actor
// and an inactive sender are both reported as 404 so the message's
// existence is not confirmed.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var msg models.Message
	if err := h.DB.Preload("Sender").First(&msg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono wiadomości.")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}

	allowed := authz.Allowed(
		authz.Actor{ID: user.ID, IsStaff: user.IsStaff},
		authz.Resource{Kind: authz.KindMessage, SenderID: msg.SenderID, RecipientID: msg.RecipientID},
		authz.OpMarkRead,
	)
	if !allowed || !msg.Sender.IsActive {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Nie znaleziono wiadomości.")
		return
	}

	msg.IsRead = true
	if err := h.DB.Save(&msg).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać wiadomości.")
		return
	}

	util.Success(c, util.Response{"message": "Wiadomość oznaczona jako przeczytana."})
}

// ByAdAndUser returns the conversation between the caller and another
// user about one ad. A disabled counterparty is an explicit 403.
func (h *MessageHandler) ByAdAndUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	adID, ok := pathID(c, "ad_id")
	if !ok {
		return
	}
	otherID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	var count int64
	if err := h.DB.Model(&models.Ad{}).Where("id = ?", adID).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}
	if count == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Ogłoszenie nie zostało znalezione.")
		return
	}

	var other models.User
	if err := h.DB.First(&other, otherID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Użytkownik nie został znaleziony")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		}
		return
	}
	if !other.IsActive {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Konto użytkownika jest zablokowane.")
		return
	}

	var msgs []models.Message
	if err := h.DB.Preload("Sender").Preload("Recipient").Preload("Ad").
		Where("ad_id = ?", adID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			user.ID, other.ID, other.ID, user.ID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	items := make([]gin.H, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResp(&msgs[i]))
	}
	util.Success(c, util.Response{"messages": items})
}
