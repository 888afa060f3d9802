package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryDevelopment    Category = "development"
	CategoryBug            Category = "bug"
	CategoryCodeReview     Category = "code_review"
	CategoryMeeting        Category = "meeting"
	CategorySupport        Category = "support"
	CategoryInfrastructure Category = "infrastructure"
	CategoryAdministrative Category = "administrative"
	CategoryPersonal       Category = "personal"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryDevelopment,
	CategoryBug,
	CategoryCodeReview,
	CategoryMeeting,
	CategorySupport,
	CategoryInfrastructure,
	CategoryAdministrative,
	CategoryPersonal,
}

var categoryLabels = map[Category]string{
	CategoryDevelopment:    "Development",
	CategoryBug:            "Bug/Investigation",
	CategoryCodeReview:     "Code Review",
	CategoryMeeting:        "Meeting",
	CategorySupport:        "Support",
	CategoryInfrastructure: "Infrastructure",
	CategoryAdministrative: "Administrative",
	CategoryPersonal:       "Personal/Excluded",
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Rank returns the display position of the category.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// IsWork reports whether time in this category counts as work.
func (c Category) IsWork() bool {
	return c != CategoryPersonal
}

// ParseCategory accepts either the identifier or the display label,
// case-insensitively.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if norm == string(c) || norm == strings.ToLower(c.Label()) {
			return c, nil
		}
	}
	switch norm {
	case "bug/investigation", "investigation":
		return CategoryBug, nil
	case "review", "code-review":
		return CategoryCodeReview, nil
	case "infra":
		return CategoryInfrastructure, nil
	case "admin":
		return CategoryAdministrative, nil
	case "excluded", "personal/excluded":
		return CategoryPersonal, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// TicketFamily tags a ticket prefix with the kind of work it represents.
type TicketFamily string

const (
	FamilyNone    TicketFamily = ""
	FamilyBug     TicketFamily = "bug"
	FamilyFeature TicketFamily = "feature"
)
