package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account is a registered user together with the AI request counter of the
// current usage cycle.
type Account struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Email            string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	FirstName        string       `gorm:"type:text" json:"first_name"`
	LastName         string       `gorm:"type:text" json:"last_name"`
	PasswordHash     string       `gorm:"type:text;not null" json:"-"`
	StripeCustomerID *string      `gorm:"type:text" json:"-"`

	AIRequestsUsed int       `gorm:"column:ai_requests_used;not null;default:0" json:"ai_requests_used"`
	CycleAnchor    time.Time `gorm:"not null" json:"cycle_anchor"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

func (a Account) DisplayName() string {
	name := a.FirstName
	if a.LastName != "" {
		if name != "" {
			name += " "
		}
		name += a.LastName
	}
	if name == "" {
		return a.Email
	}
	return name
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Profile   `json:"user"`
}

func ToProfile(a Account) Profile {
	return Profile{
		ID:        a.ID.String(),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt,
	}
}
