package handler

import (
	"errors"
	"net/http"

	"github.com/LukaszHolowacz/Marketplace/internal/models"
	"github.com/LukaszHolowacz/Marketplace/internal/util"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler covers registration and the "me" endpoint.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &UserHandler{DB: db, BcryptCost: bcryptCost}
}

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

func equalsPassword(password string) validation.RuleFunc {
	return func(value interface{}) error {
		other, _ := value.(string)
		if other != password {
			return errPasswordMismatch
		}
		return nil
	}
}

var errPasswordMismatch = errors.New("Hasła nie są identyczne.")

// Validate collects every failing field at once; the confirmation rule
// runs alongside the strength rules, not after them.
func (r registerReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("To pole jest wymagane."),
			validation.By(util.ValidateEmailSyntax)),
		validation.Field(&r.Username,
			validation.Required.Error("To pole jest wymagane."),
			validation.By(util.ValidateUsername)),
		validation.Field(&r.FirstName,
			validation.RuneLength(0, 50).Error("Imię nie może mieć więcej niż 50 znaków.")),
		validation.Field(&r.LastName,
			validation.RuneLength(0, 50).Error("Nazwisko nie może mieć więcej niż 50 znaków.")),
		validation.Field(&r.Password,
			validation.Required.Error("To pole jest wymagane."),
			validation.By(util.ValidatePasswordStrength)),
		validation.Field(&r.Password2,
			validation.Required.Error("To pole jest wymagane."),
			validation.By(equalsPassword(r.Password))),
	)
}

// fieldErrors flattens an ozzo validation result into the response map.
func fieldErrors(err error) util.FieldErrors {
	errs := util.FieldErrors{}
	if err == nil {
		return errs
	}
	if ve, ok := err.(validation.Errors); ok {
		for field, ferr := range ve {
			errs[field] = ferr.Error()
		}
		return errs
	}
	errs["non_field_errors"] = err.Error()
	return errs
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"username":    u.Username,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"is_active":   u.IsActive,
		"is_staff":    u.IsStaff,
		"date_joined": u.DateJoined,
	}
}

// Register creates an account. The uniqueness queries are a pre-flight
// courtesy; the unique indexes on email and username are what actually
// prevent a create/create race.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Niepoprawne dane.")
		return
	}

	errs := fieldErrors(req.Validate())

	if _, ok := errs["email"]; !ok {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
			return
		}
		if count > 0 {
			errs["email"] = "Email jest już zajęty."
		}
	}
	if _, ok := errs["username"]; !ok {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
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

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Nie udało się zaszyfrować hasła.")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsActive:     true,
		Profile:      models.Profile{},
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// the unique index fired: a concurrent register won the race
		if isUniqueViolation(err) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Email lub nazwa użytkownika jest już zajęta.")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Błąd serwera.")
		return
	}

	util.Created(c, util.Response{"user": userResp(&user)})
}

// GetMe returns the authenticated account. GET only.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"user": userResp(user)})
}
