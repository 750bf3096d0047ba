package api

import (
	"complaint_box/internal/domain" // Importing domain models
	"complaint_box/internal/utils"  // Utility functions
	"errors"                        // Error inspection
	"net/http"                      // HTTP status codes
	"regexp"                        // Regular expressions
	"unicode/utf8"                  // Character-based length checks

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for signup
type SignupRequest struct {
	Name     string `json:"name"`     // Display name
	Email    string `json:"email"`    // Login email
	Password string `json:"password"` // Plaintext password, hashed before storage
	Role     string `json:"role"`     // Optional role, defaults to student
	// Role-specific fields, taken as-is depending on the effective role
	RollNumber       string `json:"rollNumber"`       // Student
	RoomNumber       string `json:"roomNumber"`       // Student
	Building         string `json:"building"`         // Student
	AssignedBuilding string `json:"assignedBuilding"` // Warden
	Profession       string `json:"profession"`       // Maintenance
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email"`    // Login email
	Password string `json:"password"` // Plaintext password
}

// UserResponse is the public projection of a user, never the hash
type UserResponse struct {
	ID               string `json:"id"`                         // User ID
	Name             string `json:"name"`                       // Display name
	Email            string `json:"email"`                      // Login email
	Role             string `json:"role"`                       // Role
	Building         string `json:"building,omitempty"`         // Student building
	AssignedBuilding string `json:"assignedBuilding,omitempty"` // Warden building
	RollNumber       string `json:"rollNumber,omitempty"`       // Student roll number
	RoomNumber       string `json:"roomNumber,omitempty"`       // Student room
	Profession       string `json:"profession,omitempty"`       // Maintenance trade
}

// Response struct for authentication
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  UserResponse `json:"user"`  // Public user projection
}

var (
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`) // Basic email shape
	institutionalPattern = regexp.MustCompile(`(?i)@lnmiit\.ac\.in$`)       // Campus domain, case-insensitive
)

// isValidEmail checks the basic shape of an email address
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email) // Return whether it matched
}

// requiresInstitutionalEmail reports whether a role must sign up with
// a campus email address
func requiresInstitutionalEmail(role string) bool {
	return role == domain.RoleStudent || role == domain.RoleWarden
}

// isInstitutionalEmail checks whether the email is on the campus domain
func isInstitutionalEmail(email string) bool {
	return institutionalPattern.MatchString(email) // Return whether it matched
}

// validateSignup applies the signup schema and returns per-field errors
func validateSignup(req *SignupRequest) map[string]string {
	errs := map[string]string{} // Collected field errors
	// Validate name length in characters, not bytes
	if utf8.RuneCountInString(req.Name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}
	// Validate email shape
	if !isValidEmail(req.Email) {
		errs["email"] = "Invalid email"
	}
	// Validate password length in characters, not bytes
	if utf8.RuneCountInString(req.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	role := req.Role // Effective role, defaulted below
	if role == "" {
		role = domain.RoleStudent // Default role
	}
	// Validate role against the known set
	if !domain.ValidRole(role) {
		errs["role"] = "Invalid role"
	} else if requiresInstitutionalEmail(role) && isValidEmail(req.Email) && !isInstitutionalEmail(req.Email) {
		// Students and wardens must hold a campus email
		errs["email"] = "Students and Wardens must use lnmiit.ac.in email"
	}
	return errs
}

// publicUser maps a user and its role profile to the public projection
func publicUser(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,    // User ID
		Name:  u.Name,  // Display name
		Email: u.Email, // Login email
		Role:  u.Role,  // Role
	}
	// Flatten the role profile the way the API exposes it
	if u.Student != nil {
		resp.RollNumber = u.Student.RollNumber // Student roll number
		resp.RoomNumber = u.Student.RoomNumber // Student room
		resp.Building = u.Student.Building     // Student building
	}
	if u.Warden != nil {
		resp.AssignedBuilding = u.Warden.AssignedBuilding // Warden building
	}
	if u.Maintenance != nil {
		resp.Profession = u.Maintenance.Profession // Maintenance trade
	}
	return resp
}

// SignupHandler registers a new account and returns a token plus the
// public user projection
func SignupHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
			return
		}
		// Validate the signup schema
		if errs := validateSignup(&req); len(errs) > 0 {
			// Return the per-field errors
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "errors": errs})
			return
		}
		role := req.Role // Effective role
		if role == "" {
			role = domain.RoleStudent // Default role
		}
		var existing domain.User // Check for an already registered email
		err := db.Where("email = ?", req.Email).First(&existing).Error
		if err == nil {
			// Email taken, return conflict
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		// Only a missing row means the email is free; anything else is
		// a store fault
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Attempted email
				"error": err.Error(), // Error message
			}).Error("Signup lookup failed") // Log lookup failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Build the user with the profile matching its role
		user := domain.User{
			Name:         req.Name,     // Display name
			Email:        req.Email,    // Login email
			PasswordHash: string(hash), // Hashed password
			Role:         role,         // Effective role
		}
		switch role {
		case domain.RoleStudent:
			user.Student = &domain.StudentProfile{
				RollNumber: req.RollNumber, // Institute roll number
				RoomNumber: req.RoomNumber, // Hostel room
				Building:   req.Building,   // Hostel building
			}
		case domain.RoleWarden:
			user.Warden = &domain.WardenProfile{
				AssignedBuilding: req.AssignedBuilding, // Building under this warden
			}
		case domain.RoleMaintenance:
			user.Maintenance = &domain.MaintenanceProfile{
				Profession: req.Profession, // Trade
			}
		}
		// Attempt to create the user and its profile
		if err := db.Create(&user).Error; err != nil {
			// A concurrent signup on the same email trips the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
				return
			}
			// Anything else is a store fault
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Attempted email
				"error": err.Error(), // Error message
			}).Error("Signup create failed") // Log create failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Log the new account
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // New user ID
			"role":    user.Role, // Role
		}).Info("User registered") // Log registration
		// Return the token and public projection
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: publicUser(&user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token.
// Unknown email and wrong password produce the same response so
// accounts cannot be enumerated.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		// Validate the login shape
		if !isValidEmail(req.Email) || utf8.RuneCountInString(req.Password) < 6 {
			// Malformed credentials, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		var user domain.User // Fetch user with its role profile
		if err := db.Preload("Student").Preload("Warden").Preload("Maintenance").
			Where("email = ?", req.Email).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Return the token and public projection
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: publicUser(&user)})
	}
}
