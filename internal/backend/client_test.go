package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redmango/storefront/internal/upload"
)

func TestCreateItemSendsMultipartFields(t *testing.T) {
	var gotFields map[string]string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(2 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotFields = map[string]string{}
		for k := range r.MultipartForm.Value {
			gotFields[k] = r.FormValue(k)
		}
		f, _, err := r.FormFile("File")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			defer f.Close()
			buf := make([]byte, 8)
			n, _ := f.Read(buf)
			gotFile = buf[:n]
		}
		json.NewEncoder(w).Encode(APIResponse{IsSuccess: true})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.CreateItem(context.Background(), ItemUpsert{
		Name:        "Milk",
		Description: "Fresh dairy milk",
		Category:    "dairy",
		Price:       "2.50",
		File:        &upload.File{Name: "milk.png", ContentType: "image/png", Data: []byte{1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if !resp.IsSuccess {
		t.Error("IsSuccess = false, want true")
	}

	want := map[string]string{
		"Name": "Milk", "Description": "Fresh dairy milk", "SpecialTag": "",
		"Category": "dairy", "Price": "2.50",
	}
	for k, v := range want {
		if gotFields[k] != v {
			t.Errorf("field %s = %q, want %q", k, gotFields[k], v)
		}
	}
	if _, ok := gotFields["Id"]; ok {
		t.Error("create payload carried an Id field")
	}
	if string(gotFile) != "\x01\x02\x03" {
		t.Errorf("file bytes = %v, want [1 2 3]", gotFile)
	}
}

func TestUpdateItemRequiresID(t *testing.T) {
	c := New("http://127.0.0.1:0", time.Second)
	if _, err := c.UpdateItem(context.Background(), ItemUpsert{Name: "Milk"}); err == nil {
		t.Error("UpdateItem with empty id succeeded, want error")
	}
}

func TestGetItemCaches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		result, _ := json.Marshal(CatalogItem{ID: "7", Name: "Milk"})
		json.NewEncoder(w).Encode(APIResponse{IsSuccess: true, Result: result})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	for range 3 {
		item, err := c.GetItem(context.Background(), "7")
		if err != nil {
			t.Fatalf("GetItem: %v", err)
		}
		if item.Name != "Milk" {
			t.Errorf("Name = %q, want Milk", item.Name)
		}
	}

	if hits != 1 {
		t.Errorf("backend hit %d times, want 1 (cached)", hits)
	}
}

func TestRegisterSurfacesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(APIResponse{ErrorMessages: []string{"Username already exists"}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Register(context.Background(), Registration{UserName: "taken"})

	var backendErr *Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if len(backendErr.Messages) != 1 || backendErr.Messages[0] != "Username already exists" {
		t.Errorf("Messages = %v, want backend message list", backendErr.Messages)
	}
}

// TestTransportFailure verifies an unreachable backend yields a plain
// error, not a backend failure payload.
func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	c := New(srv.URL, time.Second)
	_, err := c.UpdateCart(context.Background(), CartUpdate{ItemID: "7", QuantityDelta: 1, UserID: "u1"})
	if err == nil {
		t.Fatal("UpdateCart against closed server succeeded")
	}
	var backendErr *Error
	if errors.As(err, &backendErr) {
		t.Errorf("transport failure classified as backend error: %v", err)
	}
}
