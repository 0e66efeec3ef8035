package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/utils"
	"gorm.io/gorm"
)

// DownloadResume streams a stored resume. Authorization is resolved through
// the Application that references the filename and the Job it belongs to,
// never from the filename itself: only the employer who owns that job, or an
// admin, may read the file.
func (h *Handler) DownloadResume(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filename := ctx.Param("filename")

	if filename == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Resume not found"})
		return
	}

	var application models.Application

	if err := h.DB.Where("resume_filename = ?", filename).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Resume not found"})
		} else {
			log.Printf("Failed to retrieve application: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var job models.Job

	if err := h.DB.First(&job, application.JobID).Error; err != nil {
		log.Printf("Failed to retrieve job for application %d: %v", application.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !canManageJob(currentUser.ID, currentUser.Role, job) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied. You can only download resumes for your own jobs."})
		return
	}

	path := h.Resumes.Path(application.ResumeFilename)

	if _, err := os.Stat(path); err != nil {
		log.Printf("Resume file missing on disk: %s", path)
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Resume not found"})
		return
	}

	ctx.FileAttachment(path, application.ResumeFilename)
}
