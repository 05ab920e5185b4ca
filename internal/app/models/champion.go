package models

import (
	"strings"
	"time"
)

// Champion is a registered reviewer
type Champion struct {
	ID            string    `json:"id" db:"id"`
	FirstName     string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName      string    `json:"lastName" db:"last_name" example:"Lovelace"`
	Email         string    `json:"email" db:"email" example:"ada@example.org"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Organization  string    `json:"organization,omitempty" db:"organization"`
	Role          string    `json:"role,omitempty" db:"role"`
	Mobile        string    `json:"mobile,omitempty" db:"mobile"`
	PrimarySector string    `json:"primarySector,omitempty" db:"primary_sector"`
	Expertise     []string  `json:"expertise" db:"expertise"`
	IsAdmin       bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (c *Champion) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DisplayName prefers the organization, falling back to the full name
func DisplayName(organization, firstName, lastName string) string {
	if strings.TrimSpace(organization) != "" {
		return organization
	}
	return strings.TrimSpace(firstName + " " + lastName)
}
