package models

// Application joins one Job and one job-seeker User. ApplicantName and
// ApplicantEmail are a snapshot taken at apply time; later changes to the
// user record do not rewrite submitted applications. The composite unique
// index enforces at most one application per (job, seeker) at the storage
// layer, closing the check-then-insert race.
type Application struct {
	BaseModel

	JobID          uint   `gorm:"not null;uniqueIndex:idx_job_seeker"`
	JobSeekerID    uint   `gorm:"not null;uniqueIndex:idx_job_seeker"`
	ApplicantName  string `gorm:"not null"`
	ApplicantEmail string `gorm:"not null"`
	ResumeFilename string `gorm:"index"`

	// Relationships
	Job       Job  `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JobSeeker User `gorm:"foreignKey:JobSeekerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
