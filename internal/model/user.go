package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names accepted by the store.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BioMaxLength bounds User.Bio.
const BioMaxLength = 200

// User represents a registered customer or administrator.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'user'"`
	ProfileImage *string   `json:"profileImage,omitempty" gorm:"size:512"`
	// ImageFile is the stored name of the last uploaded profile image. Only uploads set it.
	ImageFile    string    `json:"-" gorm:"size:255"`
	Bio          string    `json:"bio,omitempty" gorm:"size:200"`
	Profession   string    `json:"profession,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID and default role before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Profile is the public projection of a user returned after login and profile edits.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profileImage"`
	Bio          string    `json:"bio"`
	Profession   string    `json:"profession"`
}

// ToProfile projects the user onto its public profile.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Profession:   u.Profession,
	}
}

// UserSummary is the admin listing projection.
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profileImage"`
}

// ToSummary projects the user for admin listings.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

// ProfilePatch carries the fields a user may edit on their profile; nil leaves a field unchanged.
type ProfilePatch struct {
	Username     *string
	ProfileImage *string
	Bio          *string
	Profession   *string
}

// Apply merges the provided fields into u.
func (pp ProfilePatch) Apply(u *User) {
	if pp.Username != nil {
		u.Username = *pp.Username
	}
	if pp.ProfileImage != nil {
		image := *pp.ProfileImage
		u.ProfileImage = &image
	}
	if pp.Bio != nil {
		u.Bio = *pp.Bio
	}
	if pp.Profession != nil {
		u.Profession = *pp.Profession
	}
}
