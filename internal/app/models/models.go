// Package models holds the persistent shapes of the ESG review domain.
package models

import "time"

// Category is the ESG pillar a panel belongs to; it drives ranking buckets.
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
)

// Categories lists the three pillars in display order.
var Categories = []Category{CategoryEnvironmental, CategorySocial, CategoryGovernance}

// Valid reports whether c is one of the three pillars.
func (c Category) Valid() bool {
	switch c {
	case CategoryEnvironmental, CategorySocial, CategoryGovernance:
		return true
	}
	return false
}

// Timestamps is embedded by records that track creation and update times.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
