package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"insurancecrm/database"
	"insurancecrm/database/queries"
	"insurancecrm/middleware"
	"insurancecrm/models"
)

// Login exchanges username/password for a JWT.
func Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := middleware.Authenticate(c.Request.Context(), credentials.Username, credentials.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", credentials.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	log.Printf("User logged in: %s (%s)", user.Username, user.Role)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// registerRequest is the account-creation payload.
type registerRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Username string          `json:"username" binding:"required"`
	FullName string          `json:"full_name" binding:"required"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     models.UserRole `json:"role"`
}

// Register creates a new account. Admin only (route middleware).
func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleAgent
	}
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := queries.UserExists(c.Request.Context(), email, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or username already registered"})
		return
	}

	hash, err := queries.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Email:          email,
		Username:       req.Username,
		FullName:       req.FullName,
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}
	if err := queries.InsertUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("User registered: %s (%s)", user.Username, user.Role)
	c.JSON(http.StatusCreated, user)
}

// Me returns the authenticated caller's account.
func Me(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return
	}

	user, err := queries.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe lets the caller change their own email and full name.
func UpdateMe(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return
	}

	var req struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := bson.M{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := queries.EmailTaken(c.Request.Context(), email, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		fields["email"] = email
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}

	if len(fields) == 0 {
		Me(c)
		return
	}

	user, err := queries.UpdateUser(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers returns one page of accounts. Admin only (route middleware).
func ListUsers(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	users, err := queries.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// userUpdateRequest is the admin account-update payload.
type userUpdateRequest struct {
	Email    *string          `json:"email"`
	FullName *string          `json:"full_name"`
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Password *string          `json:"password"`
}

// UpdateUser lets an admin modify any account, including role, active
// flag and password.
func UpdateUser(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := bson.M{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := queries.EmailTaken(c.Request.Context(), email, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		fields["email"] = email
	}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}
		hash, err := queries.HashPassword(*req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		fields["hashed_password"] = hash
	}

	user, err := queries.UpdateUser(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser deactivates an account. Admins cannot deactivate themselves.
func DeleteUser(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	selfID, _ := actorID(c)
	if id == selfID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if err := queries.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated successfully"})
}

// CreateAdmin bootstraps the first admin account. Refuses once any user
// exists.
func CreateAdmin(c *gin.Context) {
	count, err := queries.CountUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "users already exist, use the admin account"})
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := queries.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Username:       req.Username,
		FullName:       req.FullName,
		HashedPassword: hash,
		Role:           models.RoleAdmin,
		IsActive:       true,
	}
	if err := queries.InsertUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("Bootstrap admin created: %s", user.Username)
	c.JSON(http.StatusCreated, user)
}
