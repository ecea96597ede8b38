package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redmango/storefront/internal/upload"
)

// APIResponse is the envelope every storefront endpoint answers with.
type APIResponse struct {
	IsSuccess     bool            `json:"isSuccess"`
	Result        json.RawMessage `json:"result,omitempty"`
	ErrorMessages []string        `json:"errorMessages,omitempty"`
}

// CatalogItem is a catalog record as returned by the backend.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SpecialTag  string `json:"specialTag"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// ItemUpsert carries the draft fields of a create or update mutation.
// An empty ID means create. File, when present, is uploaded as the
// multipart "File" part.
type ItemUpsert struct {
	ID          string
	Name        string
	Description string
	SpecialTag  string
	Category    string
	Price       string
	File        *upload.File
}

// CartUpdate applies a signed quantity delta to a cart line. The delta
// is a change, not the absolute quantity.
type CartUpdate struct {
	ItemID        string `json:"itemId"`
	QuantityDelta int    `json:"quantityDelta"`
	UserID        string `json:"userId"`
}

// Registration is the register contract. Note it carries no email; the
// form's email field is validated client-side only.
type Registration struct {
	UserName    string `json:"userName"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// Error is a completed request the backend answered with a failure
// payload, as opposed to a transport failure where no response arrived.
type Error struct {
	Status   int
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("backend returned %d: %s", e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}
