package sdk

import "time"

// Domain DTOs matching the backend's JSON documents. These are kept local to
// the SDK instead of shared with the session package so each layer owns the
// exact shape it speaks.

// Project is a volunteering project posted by an NGO.
type Project struct {
	ID          string    `json:"id"`
	NgoID       string    `json:"ngoId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Category    string    `json:"category,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	StartsAt    time.Time `json:"startsAt,omitzero"`
	EndsAt      time.Time `json:"endsAt,omitzero"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Application is a volunteer's application to a project. The backend embeds
// the project so ownership checks need no second fetch.
type Application struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	ProjectID string            `json:"projectId"`
	Project   Project           `json:"project,omitzero"`
	Status    ApplicationStatus `json:"status"`
	Message   string            `json:"message,omitempty"`
	CreatedAt time.Time         `json:"createdAt,omitzero"`
	UpdatedAt time.Time         `json:"updatedAt,omitzero"`
}

// User is a volunteer profile document.
type User struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Role           string   `json:"role"`
	Skills         []string `json:"skills,omitempty"`
	NgoMemberships []string `json:"ngoMemberships,omitempty"`
}

// NGO is an organisation profile document.
type NGO struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Principal  string   `json:"principal"`
	Industry   string   `json:"industry,omitempty"`
	Categories []string `json:"categories,omitempty"`
	LogoURL    string   `json:"logoUrl,omitempty"`
}

// Skill is a reference-data entry volunteers tag themselves with.
type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a reference-data entry projects are filed under.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Notification is addressed to exactly one of UserID/NgoID.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	NgoID     string    `json:"ngoId,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
