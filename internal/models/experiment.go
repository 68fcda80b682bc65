package models

import "time"

// Experiment is a researcher-owned record. AuthorID is set from the
// authenticated session at creation time and never changes afterwards.
type Experiment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"not null" json:"category"`
	AuthorID    uint      `gorm:"index;not null" json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Categories is the closed set of experiment categories. The original
// client offered exactly these four options; the service rejects
// anything else instead of trusting the form.
var Categories = []string{
	"Biology",
	"Chemistry",
	"Physics",
	"Computer Science",
}

// ValidCategory reports whether category belongs to the closed set
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
