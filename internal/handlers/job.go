package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/utils"
	"gorm.io/gorm"
)

type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Salary      string `json:"salary"`
	Location    string `json:"location" binding:"required"`
	Company     string `json:"company" binding:"required"`
}

type UpdateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Salary      string `json:"salary"`
	Location    string `json:"location" binding:"required"`
	Company     string `json:"company" binding:"required"`
}

type JobResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Salary      string    `json:"salary"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	EmployerID  uint      `json:"employer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ApplicationResponse struct {
	ID             uint      `json:"id"`
	JobID          uint      `json:"job_id"`
	ApplicantName  string    `json:"applicant_name"`
	ApplicantEmail string    `json:"applicant_email"`
	ResumeFilename string    `json:"resume_filename"`
	CreatedAt      time.Time `json:"created_at"`
}

func toJobResponse(job models.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Salary:      job.Salary,
		Location:    job.Location,
		Company:     job.Company,
		EmployerID:  job.EmployerID,
		CreatedAt:   job.CreatedAt,
	}
}

func toJobResponses(jobs []models.Job) []JobResponse {
	response := make([]JobResponse, 0, len(jobs))

	for _, job := range jobs {
		response = append(response, toJobResponse(job))
	}

	return response
}

func toApplicationResponse(application models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             application.ID,
		JobID:          application.JobID,
		ApplicantName:  application.ApplicantName,
		ApplicantEmail: application.ApplicantEmail,
		ResumeFilename: application.ResumeFilename,
		CreatedAt:      application.CreatedAt,
	}
}

// canManageJob is the ownership rule used across job routes: admins may act
// on any job, employers only on their own.
func canManageJob(caller uint, role models.Role, job models.Job) bool {
	return role == models.RoleAdmin || caller == job.EmployerID
}

func (h *Handler) CreateJob(ctx *gin.Context) {
	var req CreateJobRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	job := models.Job{
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		Location:    req.Location,
		Company:     req.Company,
		EmployerID:  currentUser.ID,
	}

	if err := h.DB.Create(&job).Error; err != nil {
		log.Printf("Failed to create job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Job posted successfully!",
		"job":     toJobResponse(job),
	})
}

func (h *Handler) UpdateJob(ctx *gin.Context) {
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

	if !canManageJob(currentUser.ID, currentUser.Role, job) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied. You can only edit jobs you have posted."})
		return
	}

	var req UpdateJobRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// ID, employer and creation timestamp are immutable.
	job.Title = req.Title
	job.Description = req.Description
	job.Salary = req.Salary
	job.Location = req.Location
	job.Company = req.Company

	if err := h.DB.Save(&job).Error; err != nil {
		log.Printf("Failed to update job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Job updated successfully!",
		"job":     toJobResponse(job),
	})
}

// SearchJobs is the public listing. query matches title, description or
// company; location matches location; both case-insensitive substring
// filters, ANDed when both present. Results are newest first.
func (h *Handler) SearchJobs(ctx *gin.Context) {
	query := ctx.Query("query")
	location := ctx.Query("location")

	tx := h.DB.Model(&models.Job{}).Order("created_at DESC")

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(company) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if location != "" {
		pattern := "%" + strings.ToLower(location) + "%"
		tx = tx.Where("LOWER(location) LIKE ?", pattern)
	}

	var jobs []models.Job

	if err := tx.Find(&jobs).Error; err != nil {
		log.Printf("Failed to search jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"jobs": toJobResponses(jobs)})
}

// JobDetail is public; when the caller is a signed-in job seeker the
// response also says whether they have already applied.
func (h *Handler) JobDetail(ctx *gin.Context) {
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

	hasApplied := false

	if currentUser, err := utils.GetCurrentUser(ctx); err == nil && currentUser.Role == models.RoleJobSeeker {
		var count int64

		if err := h.DB.Model(&models.Application{}).
			Where("job_id = ? AND job_seeker_id = ?", job.ID, currentUser.ID).
			Count(&count).Error; err != nil {
			log.Printf("Failed to check existing application: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job"})
			return
		}

		hasApplied = count > 0
	}

	ctx.JSON(http.StatusOK, gin.H{
		"job":         toJobResponse(job),
		"has_applied": hasApplied,
	})
}

// Dashboard is the role-scoped listing. Employers see the jobs they posted,
// admins see everything newest first, and job seekers see two partitions:
// the jobs they applied to and every remaining job newest first.
func (h *Handler) Dashboard(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	switch currentUser.Role {
	case models.RoleEmployer:
		var jobs []models.Job

		if err := h.DB.Where("employer_id = ?", currentUser.ID).Find(&jobs).Error; err != nil {
			log.Printf("Failed to retrieve jobs: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"jobs": toJobResponses(jobs)})

	case models.RoleAdmin:
		var jobs []models.Job

		if err := h.DB.Order("created_at DESC").Find(&jobs).Error; err != nil {
			log.Printf("Failed to retrieve jobs: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"jobs": toJobResponses(jobs)})

	default: // job seeker
		var appliedJobIDs []uint

		if err := h.DB.Model(&models.Application{}).
			Where("job_seeker_id = ?", currentUser.ID).
			Pluck("job_id", &appliedJobIDs).Error; err != nil {
			log.Printf("Failed to retrieve applications: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
			return
		}

		var appliedJobs []models.Job

		if len(appliedJobIDs) > 0 {
			if err := h.DB.Where("id IN ?", appliedJobIDs).Find(&appliedJobs).Error; err != nil {
				log.Printf("Failed to retrieve applied jobs: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
				return
			}
		}

		remaining := h.DB.Order("created_at DESC")

		// NOT IN with an empty list matches nothing in SQL, so only
		// constrain when there is something to exclude.
		if len(appliedJobIDs) > 0 {
			remaining = remaining.Where("id NOT IN ?", appliedJobIDs)
		}

		var otherJobs []models.Job

		if err := remaining.Find(&otherJobs).Error; err != nil {
			log.Printf("Failed to retrieve jobs: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jobs"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"applied_jobs": toJobResponses(appliedJobs),
			"jobs":         toJobResponses(otherJobs),
		})
	}
}

// ListApplicants returns the applications for a job, in insertion order, to
// the job's employer or an admin.
func (h *Handler) ListApplicants(ctx *gin.Context) {
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

	if !canManageJob(currentUser.ID, currentUser.Role, job) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied. You can only view applicants for your own jobs."})
		return
	}

	var applications []models.Application

	if err := h.DB.Where("job_id = ?", job.ID).Order("id").Find(&applications).Error; err != nil {
		log.Printf("Failed to retrieve applications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	response := make([]ApplicationResponse, 0, len(applications))

	for _, application := range applications {
		response = append(response, toApplicationResponse(application))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"job":        toJobResponse(job),
		"applicants": response,
	})
}
