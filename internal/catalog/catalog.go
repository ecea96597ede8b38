// Package catalog holds the catalog item draft and the submission
// orchestrator behind the create/edit form.
package catalog

import (
	"fmt"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/upload"
)

// Category is a catalog item category. The set is closed.
type Category string

const (
	CategoryInstant  Category = "instant"
	CategoryBeverage Category = "beverage"
	CategorySweets   Category = "sweets"
	CategoryJuice    Category = "juice"
	CategoryDairy    Category = "dairy"
	CategoryCookies  Category = "cookies"
	CategoryWheat    Category = "wheat"
	CategoryFruits   Category = "fruits"
)

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryInstant, CategoryBeverage, CategorySweets, CategoryJuice,
		CategoryDairy, CategoryCookies, CategoryWheat, CategoryFruits,
	}
}

// ParseCategory validates a raw category value against the closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Draft is the in-memory, unsaved state of the catalog item form. An
// empty ID means create mode. Image is the staged upload; RemoteImage
// is the existing image reference when editing. On update, keeping
// RemoteImage without a new Image retains the stored image.
type Draft struct {
	ID          string
	Name        string
	Description string
	SpecialTag  string
	Category    Category
	Price       string
	Image       *upload.File
	RemoteImage string
}

// NewDraft returns an empty create-mode draft with the default category
// preselected.
func NewDraft() Draft {
	return Draft{Category: Categories()[0]}
}

// DraftFromItem hydrates an edit-mode draft from a fetched record.
func DraftFromItem(item backend.CatalogItem) Draft {
	return Draft{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		SpecialTag:  item.SpecialTag,
		Category:    Category(item.Category),
		Price:       item.Price,
		RemoteImage: item.Image,
	}
}
