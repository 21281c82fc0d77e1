package user

import (
	"time"
)

type User struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        *string    `json:"-"`
	AvatarURL           string     `json:"avatar"`
	Currency            string     `json:"currency"`
	RefreshTokenHash    *string    `json:"-"`
	RefreshTokenExpires *time.Time `json:"-"`
	GoogleID            *string    `json:"-"`
	IsGoogleUser        bool       `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Profile is the public projection of a user. Password and refresh-token
// fields never leave the domain layer.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Currency string `json:"currency"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.AvatarURL,
		Currency: u.Currency,
	}
}

type CreateParams struct {
	Name         string
	Email        string
	PasswordHash *string
	AvatarURL    string
	Currency     string
	GoogleID     *string
	IsGoogleUser bool
}

// UpdateParams is the profile patch. Only the listed fields are mutable
// through the API; nil means "leave unchanged".
type UpdateParams struct {
	Name     *string
	Avatar   *string
	Currency *string
}
