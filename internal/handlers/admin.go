package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/types"
	"github.com/jobboard-dev/jobboard/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID         uint           `json:"id"`
	ActorID    uint           `json:"actor_id"`
	EntityType string         `json:"entity_type"`
	EntityID   uint           `json:"entity_id"`
	Action     string         `json:"action"`
	Detail     datatypes.JSON `json:"detail"`
}

func auditDetail(fields map[string]interface{}) datatypes.JSON {
	detail, err := json.Marshal(fields)

	if err != nil {
		return nil
	}

	return datatypes.JSON(detail)
}

// AdminDashboard returns every user, every job, the admin's own postings and
// the most recent moderation actions.
func (h *Handler) AdminDashboard(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var users []models.User

	if err := h.DB.Find(&users).Error; err != nil {
		log.Printf("Failed to retrieve users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	var jobs []models.Job

	if err := h.DB.Find(&jobs).Error; err != nil {
		log.Printf("Failed to retrieve jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	var postedJobs []models.Job

	if err := h.DB.Where("employer_id = ?", currentUser.ID).Find(&postedJobs).Error; err != nil {
		log.Printf("Failed to retrieve posted jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	var auditLogs []models.AuditLog

	if err := h.DB.Order("id DESC").Limit(20).Find(&auditLogs).Error; err != nil {
		log.Printf("Failed to retrieve audit log: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log"})
		return
	}

	userResponses := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		userResponses = append(userResponses, types.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
	}

	auditResponses := make([]AuditLogResponse, 0, len(auditLogs))

	for _, entry := range auditLogs {
		auditResponses = append(auditResponses, AuditLogResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Action:     entry.Action,
			Detail:     entry.Detail,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users":       userResponses,
		"jobs":        toJobResponses(jobs),
		"posted_jobs": toJobResponses(postedJobs),
		"audit_log":   auditResponses,
	})
}

// DeleteUser removes a user together with every job they posted and every
// application they submitted or received, in one transaction. The cascade is
// explicit rather than left to driver foreign-key behavior.
func (h *Handler) DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := utils.GetUserIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User

	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to retrieve user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var ownedJobIDs []uint

		if err := tx.Model(&models.Job{}).
			Where("employer_id = ?", user.ID).
			Pluck("id", &ownedJobIDs).Error; err != nil {
			return err
		}

		if len(ownedJobIDs) > 0 {
			if err := tx.Where("job_id IN ?", ownedJobIDs).Delete(&models.Application{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("job_seeker_id = ?", user.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		if err := tx.Where("employer_id = ?", user.ID).Delete(&models.Job{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditLog{
			ActorID:    currentUser.ID,
			EntityType: "user",
			EntityID:   user.ID,
			Action:     "delete",
			Detail: auditDetail(map[string]interface{}{
				"username":     user.Username,
				"email":        user.Email,
				"role":         user.Role,
				"deleted_jobs": len(ownedJobIDs),
			}),
		}).Error
	})

	if err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User %s has been deleted.", user.Username)})
}

// DeleteJob removes a job and its applications in one transaction.
func (h *Handler) DeleteJob(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	jobID, err := utils.GetJobID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.Job

	if err := h.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		} else {
			log.Printf("Failed to retrieve job: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&job).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditLog{
			ActorID:    currentUser.ID,
			EntityType: "job",
			EntityID:   job.ID,
			Action:     "delete",
			Detail: auditDetail(map[string]interface{}{
				"title":       job.Title,
				"company":     job.Company,
				"employer_id": job.EmployerID,
			}),
		}).Error
	})

	if err != nil {
		log.Printf("Failed to delete job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Job '%s' has been deleted.", job.Title)})
}
