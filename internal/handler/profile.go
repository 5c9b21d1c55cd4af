package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/LukaszHolowacz/Marketplace/internal/authz"
	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAvatar = "/media/images/default-avatar.png"

// Pointer fields so a partial PATCH can tell "not sent" from "set to
// empty"; only fields present in the payload are applied.
type updateProfileReq struct {
	Username *string `json:"username" form:"username"`
	Email    *string `json:"email" form:"email"`
	Phone    *string `json:"phone" form:"phone"`
	Address  *string `json:"address" form:"address"`
	Bio      *string `json:"bio" form:"bio"`
}

func (r updateProfileReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.By(func(interface{}) error {
			if r.Email == nil || *r.Email == "" {
				return nil
			}
			return util.ValidateEmailSyntax(*r.Email)
		})),
		validation.Field(&r.Username, validation.By(func(interface{}) error {
			if r.Username == nil || *r.Username == "" {
				return nil
			}
			return util.ValidateUsername(*r.Username)
		})),
		validation.Field(&r.Phone, validation.By(func(interface{}) error {
			if r.Phone == nil {
				return nil
			}
			return util.ValidatePhone(*r.Phone)
		})),
	)
}

func profileResp(user *models.User, profile *models.Profile) gin.H {
	avatar := defaultAvatar
	if profile != nil && profile.Avatar != "" {
		avatar = profile.Avatar
	}
	resp := gin.H{
		"username": user.Username,
		"email":    user.Email,
		"avatar":   avatar,
		"phone":    "",
		"address":  "",
		"bio":      "",
	}
	if profile != nil {
		resp["phone"] = profile.Phone
		resp["address"] = profile.Address
		resp["bio"] = profile.Bio
	}
	return resp
}

// UpdateProfile updates the caller's profile fields and, optionally, the
// login identifiers. Accepts JSON or multipart (for the avatar).
func UpdateProfile(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req updateProfileReq
		isMultipart := strings.HasPrefix(c.ContentType(), "multipart/form-data")
		if isMultipart {
			if err := c.ShouldBind(&req); err != nil {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
				return
			}
		} else if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
			return
		}

		errs := fieldErrors(req.Validate())

		// uniqueness checks exclude the caller's own row
		if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
			var count int64
			if err := db.Model(&models.User{}).
				Where("email = ? AND id <> ?", *req.Email, user.ID).
				Count(&count).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
				return
			}
			if count > 0 {
				errs["email"] = "Email jest już zajęty."
			}
		}
		if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
			var count int64
			if err := db.Model(&models.User{}).
				Where("username = ? AND id <> ?", *req.Username, user.ID).
				Count(&count).Error; err != nil {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
				return
			}
			if count > 0 {
				errs["username"] = "Nazwa użytkownika jest już zajęta."
			}
		}

		if len(errs) > 0 {
			util.ValidationError(c, errs)
			return
		}

		var profile models.Profile
		if err := db.Where("user_id = ?", user.ID).FirstOrCreate(&profile, models.Profile{UserID: user.ID}).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
			return
		}

		if isMultipart {
			if file, err := c.FormFile("avatar"); err == nil {
				name := uuid.NewString() + filepath.Ext(file.Filename)
				dst := filepath.Join(uploadDir, "users", "avatars", name)
				if err := c.SaveUploadedFile(file, dst); err != nil {
					util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać pliku.")
					return
				}
				profile.Avatar = "/media/users/avatars/" + name
			}
		}

		// only fields present in the payload are written
		if req.Phone != nil {
			profile.Phone = *req.Phone
		}
		if req.Address != nil {
			profile.Address = *req.Address
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}

		if req.Username != nil && *req.Username != "" {
			user.Username = *req.Username
		}
		if req.Email != nil && *req.Email != "" {
			user.Email = *req.Email
		}

		if err := db.Save(&profile).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać profilu.")
			return
		}
		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zapisać profilu.")
			return
		}

		util.Success(c, util.Response{"profile": profileResp(user, &profile)})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password against the stored hash and
// applies the strength policy to the new one only.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Stare hasło jest niepoprawne.")
			return
		}

		if err := util.ValidatePasswordStrength(req.NewPassword); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zaszyfrować hasła.")
			return
		}

		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zmienić hasła.")
			return
		}

		util.Success(c, util.Response{"message": "Hasło zostało pomyślnie zmienione."})
	}
}

// DeleteUser removes an account permanently. Only the account itself or
// a staff account may do it; the deny is an explicit 403, never a 404.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c)
		if !ok {
			return
		}

		targetID, ok := pathID(c, "user")
		if !ok {
			return
		}

		var target models.User
		if err := db.First(&target, targetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "Użytkownik nie został znaleziony")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
			}
			return
		}

		allowed := authz.Allowed(
			authz.Actor{ID: actor.ID, IsStaff: actor.IsStaff},
			authz.Resource{Kind: authz.KindAccount, AccountID: target.ID},
			authz.OpDelete,
		)
		if !allowed {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "Brak uprawnień do usunięcia tego użytkownika.")
			return
		}

		// hard delete; ads, messages and favorites go with it through
		// the foreign key cascades
		if err := db.Select("Profile").Delete(&target).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się usunąć użytkownika.")
			return
		}

		util.NoContent(c, "Użytkownik został usunięty.")
	}
}

// PublicProfile returns a profile by username. An inactive account is
// reported as not found unless the requester is that account or staff.
func PublicProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("user")

		var target models.User
		if err := db.Preload("Profile").Where("username = ?", username).First(&target).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "Użytkownik nie znaleziony")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
			}
			return
		}

		if !target.IsActive {
			requester := optionalUser(c)
			if requester == nil || (requester.ID != target.ID && !requester.IsStaff) {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "Użytkownik nie znaleziony")
				return
			}
		}

		util.Success(c, util.Response{"profile": profileResp(&target, &target.Profile)})
	}
}
