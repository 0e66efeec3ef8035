package models

// Role determines which operations a user may perform.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// RegistrationRole maps a caller-supplied role to one a registration may
// claim. Anything outside {job_seeker, employer} falls back to job_seeker.
func RegistrationRole(input string) Role {
	role := Role(input)
	if role == RoleJobSeeker || role == RoleEmployer {
		return role
	}
	return RoleJobSeeker
}

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'job_seeker'"`

	// Relationships
	PostedJobs   []Job         `gorm:"foreignKey:EmployerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:JobSeekerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
