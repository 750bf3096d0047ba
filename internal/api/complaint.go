package api

import (
	"complaint_box/internal/domain" // Importing domain models
	"complaint_box/internal/utils"  // Utility functions
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"time"                          // Time durations
	"unicode/utf8"                  // Character-based length checks

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

const (
	allComplaintsCacheKey = "complaints:all"    // Cache key for the staff list view
	allComplaintsCacheTTL = 60 * time.Second    // Cache TTL for the staff list view
	submissionWindow      = 24 * time.Hour      // Window for the submission counter
	maxDailySubmissions   = 20                  // Complaint creations per student per window
	submissionKeyPrefix   = "complaints:count:" // Counter key prefix, suffixed with the user ID
)

// Request struct for creating a complaint
type CreateComplaintRequest struct {
	Title       string `json:"title"`       // Short summary
	Description string `json:"description"` // Full description
	Category    string `json:"category"`    // e.g. Electricity, Plumbing
	Building    string `json:"building"`    // Optional hostel building
	RoomNumber  string `json:"roomNumber"`  // Optional hostel room
}

// Request struct for a status update
type UpdateStatusRequest struct {
	Status     string `json:"status"`     // Requested status, empty leaves it untouched
	AssignedTo string `json:"assignedTo"` // Requested assignee, empty leaves it untouched
}

// validateCreateComplaint applies the creation schema and returns per-field errors
func validateCreateComplaint(req *CreateComplaintRequest) map[string]string {
	errs := map[string]string{} // Collected field errors
	// Lengths are counted in characters, not bytes
	if utf8.RuneCountInString(req.Title) < 3 {
		errs["title"] = "Title must be at least 3 characters"
	}
	if utf8.RuneCountInString(req.Description) < 10 {
		errs["description"] = "Description must be at least 10 characters"
	}
	if utf8.RuneCountInString(req.Category) < 2 {
		errs["category"] = "Category must be at least 2 characters"
	}
	return errs
}

// studentMayRequest reports whether a complaint owner may move their
// complaint to the requested status. Owners may only close out their
// own complaints; they cannot start progress or reopen them.
func studentMayRequest(status string) bool {
	return status == domain.StatusResolved || status == domain.StatusRejected
}

// invalidateAllComplaintsCache drops the cached staff list view
func invalidateAllComplaintsCache(rdb *redis.Client) {
	if rdb != nil {
		_ = utils.DeleteCache(context.Background(), rdb, allComplaintsCacheKey) // Best-effort invalidation
	}
}

// CreateComplaintHandler files a new complaint owned by the caller
func CreateComplaintHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateComplaintRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
			return
		}
		// Validate the creation schema
		if errs := validateCreateComplaint(&req); len(errs) > 0 {
			// Return the per-field errors
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input", "errors": errs})
			return
		}
		// Submission-count check: a student gets a bounded number of
		// filings per window. Skipped when Redis is not configured.
		counterKey := submissionKeyPrefix + userID.(string) // Per-user counter key
		if rdb != nil {
			n, err := utils.CountInWindow(context.Background(), rdb, counterKey, submissionWindow)
			if err == nil && n > maxDailySubmissions {
				// Over the limit, return bad request
				c.JSON(http.StatusBadRequest, gin.H{"message": "Daily complaint limit reached"})
				return
			}
		}
		// Build the complaint owned by the caller
		complaint := domain.Complaint{
			Title:       req.Title,         // Short summary
			Description: req.Description,   // Full description
			Category:    req.Category,      // Category
			StudentID:   userID.(string),   // Owner, immutable after creation
			Status:      domain.StatusOpen, // Initial status
			Building:    req.Building,      // Optional building
			RoomNumber:  req.RoomNumber,    // Optional room
		}
		// Persist the complaint
		if err := db.Create(&complaint).Error; err != nil {
			// A filing that never persisted does not consume quota
			if rdb != nil {
				_ = rdb.Decr(context.Background(), counterKey).Err() // Best-effort refund
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"error":   err.Error(), // Error message
			}).Error("Failed to create complaint") // Log creation failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Log the filing
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,             // Owner
			"complaint_id": complaint.ID,       // New complaint ID
			"category":     complaint.Category, // Category
		}).Info("Complaint filed") // Log complaint creation
		invalidateAllComplaintsCache(rdb)     // Staff list view changed
		c.JSON(http.StatusCreated, complaint) // Return the new complaint
	}
}

// ListMyComplaintsHandler returns the caller's complaints, newest first.
// The query itself is scoped to the caller, so identity is the only
// check needed.
func ListMyComplaintsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var complaints []domain.Complaint // Slice to hold complaints
		// Fetch the caller's complaints, newest first
		if err := db.Where("student_id = ?", userID).
			Order("created_at desc").
			Find(&complaints).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Caller
				"error":   err.Error(), // Error message
			}).Error("Failed to list complaints") // Log fetch failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, complaints) // Return the complaint list
	}
}

// ListAllComplaintsHandler returns every complaint, newest first.
// Restricted to staff roles by middleware; cached in Redis because
// wardens poll this view from the dashboard.
func ListAllComplaintsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()       // Context for Redis operations
		var complaints []domain.Complaint // Slice to hold complaints
		// Try to get from cache
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, allComplaintsCacheKey, &complaints)
			if err == nil && found {
				c.JSON(http.StatusOK, complaints) // Return cached list
				return
			}
		}
		// If not in cache, fetch from DB, newest first
		if err := db.Order("created_at desc").Find(&complaints).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"error": err.Error(), // Error message
			}).Error("Failed to list all complaints") // Log fetch failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Cache the result
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, allComplaintsCacheKey, complaints, allComplaintsCacheTTL)
		}
		c.JSON(http.StatusOK, complaints) // Return the complaint list
	}
}

// UpdateComplaintStatusHandler applies the role-scoped status state
// machine. A student owner may only close their own complaint as
// resolved or rejected; warden and maintenance callers may set any
// status and the assignee on any complaint, with no transition-order
// enforcement. The owner field is never touched.
func UpdateComplaintStatusHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		role, roleExists := c.Get("role") // Get role from context
		// Check if identity exists in context
		if !exists || !roleExists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req UpdateStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
			return
		}
		var complaint domain.Complaint // Load the complaint by ID
		if err := db.Where("id = ?", c.Param("id")).First(&complaint).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "Complaint not found"})
			return
		}
		// Branch on the caller's role
		switch role {
		case domain.RoleStudent:
			// A student may only touch their own complaint
			if complaint.StudentID != userID {
				c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
				return
			}
			// Owners may only close out, never start progress or reopen
			if !studentMayRequest(req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status for student"})
				return
			}
			complaint.Status = req.Status // Apply the close-out; assignee is ignored for students
		case domain.RoleWarden, domain.RoleMaintenance:
			// Staff may address any complaint; empty fields leave the
			// stored value untouched
			if req.AssignedTo != "" {
				complaint.AssignedTo = &req.AssignedTo // Set the assignee
			}
			if req.Status != "" {
				complaint.Status = req.Status // Set the status
			}
		default:
			// Unknown role, return forbidden
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		// Persist the mutated fields
		if err := db.Save(&complaint).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":      userID,       // Caller
				"complaint_id": complaint.ID, // Complaint ID
				"error":        err.Error(),  // Error message
			}).Error("Failed to update complaint") // Log update failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,           // Caller
			"role":         role,             // Caller role
			"complaint_id": complaint.ID,     // Complaint ID
			"status":       complaint.Status, // New status
		}).Info("Complaint updated") // Log complaint update
		invalidateAllComplaintsCache(rdb) // Staff list view changed
		c.JSON(http.StatusOK, complaint)  // Return the updated complaint
	}
}
