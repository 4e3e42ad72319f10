package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxAvatarSize = 5 << 20

const invalidCredentials = "Invalid email or password"

type AuthHandler struct {
	Users    UserStore
	Tokens   TokenIssuer
	Uploader AvatarUploader
	Log      *logrus.Entry
}

type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a donor account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Users.FindByEmail(ctx, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		internalError(c, h.Log, err, "Server error during registration")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, h.Log, err, "Server error during registration")
		return
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Password:   hashedPassword,
		Avatar:     req.Avatar,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
		Role:       models.RoleDonor,
		Status:     models.StatusActive,
		CreatedAt:  time.Now(),
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		internalError(c, h.Log, err, "Server error during registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": user})
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("lifelink-timing-equalizer")
	return h
})

// Login verifies credentials and issues a token. Unknown email and wrong
// password get the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			auth.CheckPasswordHash(req.Password, dummyHash())
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}
		internalError(c, h.Log, err, "Server error during login")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}

	if user.Status == models.StatusBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is blocked"})
		return
	}

	token, err := h.Tokens.Generate(*user)
	if err != nil {
		internalError(c, h.Log, err, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Profile returns the caller's own record.
func (h *AuthHandler) Profile(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), me.ID)
	if err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile merges whitelisted fields only. role, status and email in the
// body are ignored because ProfileUpdate has no place for them.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	fields := req.Fields()
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}
	if name, ok := fields["name"]; ok && strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), me.ID, fields)
	if err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}

// ChangePassword requires the current password before storing a new hash.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currentPassword and newPassword are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.FindByID(ctx, me.ID)
	if err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to change password")
		return
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		internalError(c, h.Log, err, "Failed to change password")
		return
	}
	if err := h.Users.UpdatePassword(ctx, me.ID, hash); err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// UploadAvatar stores the multipart "avatar" image in S3 and saves its URL.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Avatar upload is not configured"})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar must be at most 5MB"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar must be an image"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar"})
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	url, err := h.Uploader.UploadFile(ctx, file, s3.AvatarKey(me.ID, fileHeader.Filename), contentType)
	if err != nil {
		internalError(c, h.Log, err, "Failed to upload avatar")
		return
	}

	user, err := h.Users.UpdateProfile(ctx, me.ID, map[string]string{"avatar": url})
	if err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated", "user": user})
}
