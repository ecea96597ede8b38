// Package api hosts the bundled dev backend: an in-memory HTTP
// implementation of the storefront contracts the client consumes, plus
// an MCP tool surface over the catalog and local feedback stores. The
// dev backend exists for local development and end-to-end tests; it is
// not the production service.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/session"
)

const maxUploadBytes = 2 << 20 // form fields plus a 1,000 KiB image

// Server holds the dev backend's in-memory state.
type Server struct {
	mu     sync.Mutex
	items  map[string]backend.CatalogItem
	order  []string                      // insertion order, for listing
	carts  map[string]map[string]int     // userID -> itemID -> quantity
	users  map[string]backend.Registration // by userName
	logger *slog.Logger
}

func NewServer() *Server {
	return &Server{
		items:  make(map[string]backend.CatalogItem),
		carts:  make(map[string]map[string]int),
		users:  make(map[string]backend.Registration),
		logger: slog.Default(),
	}
}

// Handler returns the dev backend's route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/catalog-items", s.handleCreateItem)
	r.Put("/api/catalog-items/{id}", s.handleUpdateItem)
	r.Get("/api/catalog-items/{id}", s.handleGetItem)
	r.Get("/api/catalog-items", s.handleListItems)
	r.Post("/api/cart", s.handleUpdateCart)
	r.Post("/api/auth/register", s.handleRegister)

	return r
}

// CartQuantity reports a user's current quantity for an item. Test hook.
func (s *Server) CartQuantity(userID, itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[userID][itemID]
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart payload: %v", err)
		return
	}

	if r.FormValue("Name") == "" {
		httpError(w, http.StatusBadRequest, "Name is required")
		return
	}

	file, header, err := r.FormFile("File")
	if err != nil {
		httpError(w, http.StatusBadRequest, "an image file is required")
		return
	}
	defer file.Close()
	if _, err := io.ReadAll(file); err != nil {
		httpError(w, http.StatusBadRequest, "reading image: %v", err)
		return
	}

	id := uuid.NewString()
	item := backend.CatalogItem{
		ID:          id,
		Name:        r.FormValue("Name"),
		Description: r.FormValue("Description"),
		SpecialTag:  r.FormValue("SpecialTag"),
		Category:    r.FormValue("Category"),
		Price:       r.FormValue("Price"),
		Image:       "/images/" + id + filepath.Ext(header.Filename),
	}

	s.mu.Lock()
	s.items[id] = item
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.logger.Info("catalog item created", "id", id, "name", item.Name)
	writeResult(w, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart payload: %v", err)
		return
	}

	s.mu.Lock()
	item, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		httpError(w, http.StatusNotFound, "Item not found")
		return
	}

	item.Name = r.FormValue("Name")
	item.Description = r.FormValue("Description")
	item.SpecialTag = r.FormValue("SpecialTag")
	item.Category = r.FormValue("Category")
	item.Price = r.FormValue("Price")

	// A new image is optional on update; without one the stored image
	// reference is retained.
	if file, header, err := r.FormFile("File"); err == nil {
		file.Close()
		item.Image = "/images/" + id + filepath.Ext(header.Filename)
	}

	s.mu.Lock()
	s.items[id] = item
	s.mu.Unlock()

	s.logger.Info("catalog item updated", "id", id)
	writeResult(w, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	item, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		httpError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeResult(w, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := make([]backend.CatalogItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	s.mu.Unlock()

	writeResult(w, items)
}

func (s *Server) handleUpdateCart(w http.ResponseWriter, r *http.Request) {
	var update backend.CartUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if update.UserID == "" {
		httpError(w, http.StatusBadRequest, "userId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[update.ItemID]; !ok {
		httpError(w, http.StatusNotFound, "Item not found")
		return
	}

	cart := s.carts[update.UserID]
	if cart == nil {
		cart = make(map[string]int)
		s.carts[update.UserID] = cart
	}
	q := cart[update.ItemID] + update.QuantityDelta
	if q <= 0 {
		delete(cart, update.ItemID)
	} else {
		cart[update.ItemID] = q
	}

	writeJSON(w, backend.APIResponse{IsSuccess: true})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg backend.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if reg.UserName == "" || reg.Password == "" {
		httpError(w, http.StatusBadRequest, "userName and password are required")
		return
	}
	if _, err := session.ParseRole(reg.Role); err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[reg.UserName]; exists {
		httpError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	s.users[reg.UserName] = reg

	s.logger.Info("user registered", "userName", reg.UserName, "role", reg.Role)
	writeJSON(w, backend.APIResponse{IsSuccess: true})
}

func writeResult(w http.ResponseWriter, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "encoding result: %v", err)
		return
	}
	writeJSON(w, backend.APIResponse{IsSuccess: true, Result: data})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(backend.APIResponse{
		ErrorMessages: []string{fmt.Sprintf(format, args...)},
	})
}
