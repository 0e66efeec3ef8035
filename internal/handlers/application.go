package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/services"
	"github.com/jobboard-dev/jobboard/internal/utils"
	"gorm.io/gorm"
)

// ApplyJob records a job seeker's application with a resume upload. Order of
// checks: job exists, not already applied (soft notice, not an error), file
// present and of an allowed type, then store-file-then-insert. If the insert
// fails the stored file is removed again so no orphan remains on disk.
func (h *Handler) ApplyJob(ctx *gin.Context) {
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

	var count int64

	if err := h.DB.Model(&models.Application{}).
		Where("job_id = ? AND job_seeker_id = ?", job.ID, currentUser.ID).
		Count(&count).Error; err != nil {
		log.Printf("Failed to check existing application: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if count > 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": "You have already applied for this job."})
		return
	}

	// Reject oversized uploads before any byte is read or persisted.
	if ctx.Request.ContentLength > services.MaxResumeSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Resume exceeds the 16 MB limit"})
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, services.MaxResumeSize)

	fileHeader, err := ctx.FormFile("resume")

	if err != nil {
		var maxBytesErr *http.MaxBytesError

		if errors.As(err, &maxBytesErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Resume exceeds the 16 MB limit"})
			return
		}

		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	if fileHeader.Filename == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	file, err := fileHeader.Open()

	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer file.Close()

	storedFilename, err := h.Resumes.Save(fileHeader.Filename, currentUser.Username, job.Company, file)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyFilename):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		case errors.Is(err, services.ErrUnsupportedType):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Allowed types are PDF, DOC, DOCX."})
		default:
			log.Printf("Failed to store resume: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	application := models.Application{
		JobID:          job.ID,
		JobSeekerID:    currentUser.ID,
		ApplicantName:  currentUser.Username,
		ApplicantEmail: currentUser.Email,
		ResumeFilename: storedFilename,
	}

	if err := h.DB.Create(&application).Error; err != nil {
		if removeErr := h.Resumes.Remove(storedFilename); removeErr != nil {
			log.Printf("Failed to remove resume %s after insert failure: %v", storedFilename, removeErr)
		}

		// The unique (job_id, job_seeker_id) index catches concurrent
		// duplicate applies that both passed the count above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusOK, gin.H{"message": "You have already applied for this job."})
			return
		}

		log.Printf("Failed to create application: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully!",
		"application": toApplicationResponse(application),
	})
}
