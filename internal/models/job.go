package models

type Job struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Salary      string
	Location    string `gorm:"not null"`
	Company     string `gorm:"not null"`
	EmployerID  uint   `gorm:"not null;index"`

	// Relationships
	Employer     User          `gorm:"foreignKey:EmployerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
