package models

import "time"

// Profile is a portfolio owner's record. All text fields are optional;
// empty fields are simply skipped during ingestion.
type Profile struct {
	ID          string    `json:"id,omitempty" db:"id"`
	UserID      string    `json:"user_id,omitempty" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Location    string    `json:"location" db:"location"`
	Bio         string    `json:"bio" db:"bio"`
	Skills      string    `json:"skills" db:"skills"`
	Experience  string    `json:"experience" db:"experience"`
	Projects    string    `json:"projects" db:"projects"`
	Interests   string    `json:"interests" db:"interests"`
	ProjectList []Project `json:"project_list,omitempty" db:"-"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Project is a single portfolio project. Content may be plain text or a
// serialized rich-text payload whose HTML rendition is stored alongside in
// ContentHTML by newer editors.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
	Category    string `json:"category"`
}
