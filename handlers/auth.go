package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"baggr-backend/config"
	"baggr-backend/dtos"
	"baggr-backend/firebase"
	"baggr-backend/middleware"
	"baggr-backend/models"
	"baggr-backend/services"
	"baggr-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	resetTokenBytes      = 20
	resetTokenLifetime   = time.Hour
	maxUsernameAttempts  = 20
	forgotPasswordAnswer = "If an account with that email exists, a password reset link has been sent."
)

var errInvalidRefresh = errors.New("token is invalid or expired")

type AuthHandler struct {
	DB      *gorm.DB
	Config  *config.AuthConfig
	Mailer  utils.Mailer
	Storage firebase.StorageClient
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func (h *AuthHandler) loadCurrentUser(c *gin.Context) (*models.User, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).Where("id = ?", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(u *models.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// passwordProblems applies the password policy and the confirmation check.
func passwordProblems(fields map[string]string, password, confirm string, attrs ...string) {
	if problems := utils.ValidatePassword(password, attrs...); len(problems) > 0 {
		fields["password"] = strings.Join(problems, " ")
	}
	if password != confirm {
		fields["confirm_password"] = "Passwords do not match."
	}
}

// uniqueUsername draws first_last_NNNN candidates until a free one turns up.
func uniqueUsername(tx *gorm.DB, firstName, lastName string) (string, error) {
	base := utils.UsernameBase(firstName, lastName)
	for i := 0; i < maxUsernameAttempts; i++ {
		candidate, err := utils.CandidateUsername(base)
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free username for %q", base)
}

// Signup registers an unverified user with a Profile and emails an OTP.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Email = normalizeEmail(req.Email)

	fields := map[string]string{}
	passwordProblems(fields, req.Password, req.ConfirmPassword, req.Email, req.FirstName, req.LastName)
	if !req.AcceptTerms {
		fields["accept_terms"] = "You must accept the terms and conditions."
	}

	db := h.DB.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		internalError(c, err)
		return
	}
	if count > 0 {
		fields["email"] = "A user with that email already exists."
	}
	if len(fields) > 0 {
		respondError(c, &services.FieldError{Fields: fields})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	otp, err := utils.GenerateOTP(h.Config.OTPLength)
	if err != nil {
		internalError(c, err)
		return
	}

	now := time.Now()
	user := models.User{
		Email:        req.Email,
		Password:     string(hashedPassword),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		AcceptTerms:  true,
		IsActive:     true,
		OTP:          otp,
		OTPCreatedAt: &now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		username, err := uniqueUsername(tx, user.FirstName, user.LastName)
		if err != nil {
			return err
		}
		user.Username = username

		if err := tx.Create(&user).Error; err != nil {
			if services.IsUniqueViolation(err) {
				return services.NewFieldError("email", "A user with that email already exists.")
			}
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Mailer.SendOTP(user.Email, displayName(&user), otp, h.Config.OTPTimeout)
	zap.L().Info("user signed up", zap.String("user_id", user.ID.String()))

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Account created. Check your email for the verification code.",
		"email":    user.Email,
		"username": user.Username,
	})
}

func (h *AuthHandler) otpValid(user *models.User, otp string) bool {
	if user.OTP == "" || user.OTPCreatedAt == nil {
		return false
	}
	if time.Since(*user.OTPCreatedAt) > h.Config.OTPTimeout {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(user.OTP), []byte(strings.TrimSpace(otp))) == 1
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dtos.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var user models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		return
	}
	if user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		return
	}
	if !h.otpValid(&user, req.OTP) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
		return
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"email_verified": true,
		"otp":            "",
		"otp_created_at": nil,
	}).Error; err != nil {
		internalError(c, err)
		return
	}

	h.Mailer.SendWelcome(user.Email, displayName(&user))
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// ResendOTP issues a fresh code. Unknown addresses get the same answer as
// known ones.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dtos.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	answer := gin.H{"message": "If the account exists and is unverified, a new code has been sent."}
	db := h.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, answer)
		return
	}
	if user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		return
	}

	otp, err := utils.GenerateOTP(h.Config.OTPLength)
	if err != nil {
		internalError(c, err)
		return
	}
	now := time.Now()
	if err := db.Model(&user).Updates(map[string]interface{}{"otp": otp, "otp_created_at": &now}).Error; err != nil {
		internalError(c, err)
		return
	}

	h.Mailer.SendOTP(user.Email, displayName(&user), otp, h.Config.OTPTimeout)
	c.JSON(http.StatusOK, answer)
}

// issueTokens creates an access/refresh pair and records the refresh token.
func (h *AuthHandler) issueTokens(tx *gorm.DB, user *models.User) (dtos.TokenPair, error) {
	access, err := utils.GenerateAccessToken(user.ID, user.Email, user.IsStaff, h.Config.AccessTokenLifetime)
	if err != nil {
		return dtos.TokenPair{}, err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email, user.IsStaff, h.Config.RefreshTokenLifetime)
	if err != nil {
		return dtos.TokenPair{}, err
	}
	claims, err := utils.ValidateTokenOfType(refresh, utils.TokenTypeRefresh)
	if err != nil {
		return dtos.TokenPair{}, err
	}

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := tx.Create(&rt).Error; err != nil {
		return dtos.TokenPair{}, err
	}
	return dtos.TokenPair{Access: access, Refresh: refresh}, nil
}

// Token exchanges credentials (email or username plus password) for a
// token pair.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dtos.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	query := db.Model(&models.User{})
	switch {
	case req.Email != "":
		query = query.Where("email = ?", normalizeEmail(req.Email))
	case req.Username != "":
		query = query.Where("username = ?", strings.TrimSpace(req.Username))
	default:
		respondError(c, services.NewFieldError("email", "Email or username is required"))
		return
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active account found with the given credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active account found with the given credentials"})
		return
	}
	if !user.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email address is not verified"})
		return
	}

	var pair dtos.TokenPair
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = h.issueTokens(tx, &user)
		if err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&user).Update("last_login", &now).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// revokeRefresh marks the refresh token as used. It fails when the token is
// unknown, expired or already revoked.
func revokeRefresh(tx *gorm.DB, raw string) (*models.RefreshToken, error) {
	claims, err := utils.ValidateTokenOfType(raw, utils.TokenTypeRefresh)
	if err != nil {
		return nil, errInvalidRefresh
	}

	var rt models.RefreshToken
	if err := tx.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", claims.ID, time.Now()).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, err
	}

	now := time.Now()
	res := tx.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", rt.ID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errInvalidRefresh
	}
	return &rt, nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// new pair is returned.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dtos.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var pair dtos.TokenPair
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		rt, err := revokeRefresh(tx, req.Refresh)
		if err != nil {
			return err
		}
		var user models.User
		if err := tx.Where("id = ? AND is_active = ?", rt.UserID, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidRefresh
			}
			return err
		}
		pair, err = h.issueTokens(tx, &user)
		return err
	})
	if errors.Is(err, errInvalidRefresh) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dtos.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	_, err := revokeRefresh(h.DB.WithContext(c.Request.Context()), req.Refresh)
	if errors.Is(err, errInvalidRefresh) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is invalid or expired"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetUserInfo is the document the directory service consults for every
// authorization decision.
func (h *AuthHandler) GetUserInfo(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateUserInfo(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	var req dtos.UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if len(updates) > 0 {
		if err := h.DB.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; err != nil {
			internalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

// UploadPicture replaces the caller's profile picture.
func (h *AuthHandler) UploadPicture(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Picture file is required"})
		return
	}
	ctx := c.Request.Context()
	stored, err := storeUpload(ctx, h.Storage, firebase.FolderProfilePictures, "picture", fh)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	oldPath := user.PicturePath
	if err := h.DB.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"profile_picture": stored.URL,
		"picture_path":    stored.Path,
	}).Error; err != nil {
		internalError(c, err)
		return
	}

	if oldPath != "" && h.Storage != nil {
		if err := h.Storage.DeleteFile(ctx, oldPath); err != nil {
			zap.L().Warn("failed to delete old profile picture", zap.String("path", oldPath), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, user)
}

// ForgotPassword always answers 200 so addresses cannot be probed.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dtos.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	successMsg := gin.H{"message": forgotPasswordAnswer}
	db := h.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.Where("email = ? AND is_active = ?", normalizeEmail(req.Email), true).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, successMsg)
		return
	}

	token, err := utils.GenerateResetToken(resetTokenBytes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
		return
	}
	expires := time.Now().Add(resetTokenLifetime)

	err = db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Where("user_id = ?", user.ID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.Profile{UserID: user.ID}
			err = tx.Create(&profile).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&profile).Updates(map[string]interface{}{
			"reset_password_token":  token,
			"reset_password_expire": &expires,
		}).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	h.Mailer.SendPasswordReset(user.Email, displayName(&user), token, h.Config.FrontendURL)
	c.JSON(http.StatusOK, successMsg)
}

// ResetPassword consumes a reset token. Every outstanding refresh token of
// the user is revoked.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dtos.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var profile models.Profile
	if err := db.Where("reset_password_token = ? AND reset_password_expire > ?", req.Token, time.Now()).First(&profile).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}
	var user models.User
	if err := db.Where("id = ?", profile.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	fields := map[string]string{}
	passwordProblems(fields, req.Password, req.ConfirmPassword, user.Email, user.FirstName, user.LastName)
	if len(fields) > 0 {
		respondError(c, &services.FieldError{Fields: fields})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
			return err
		}
		if err := tx.Model(&profile).Updates(map[string]interface{}{
			"reset_password_token":  "",
			"reset_password_expire": nil,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", user.ID).
			Update("revoked_at", &now).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	var req dtos.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	confirm := req.ConfirmPassword
	if confirm == "" {
		confirm = req.NewPassword
	}
	fields := map[string]string{}
	passwordProblems(fields, req.NewPassword, confirm, user.Email, user.FirstName, user.LastName)
	if pw, ok := fields["password"]; ok {
		delete(fields, "password")
		fields["new_password"] = pw
	}
	if len(fields) > 0 {
		respondError(c, &services.FieldError{Fields: fields})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
