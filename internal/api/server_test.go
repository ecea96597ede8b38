package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redmango/storefront/internal/backend"
	"github.com/redmango/storefront/internal/catalog"
	"github.com/redmango/storefront/internal/upload"
)

func newTestBackend(t *testing.T) (*Server, *backend.Client) {
	t.Helper()
	srv := NewServer()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, backend.New(ts.URL, 5*time.Second)
}

func decodeResult(t *testing.T, resp backend.APIResponse, v any) error {
	t.Helper()
	if !resp.IsSuccess {
		t.Fatalf("response not successful: %v", resp.ErrorMessages)
	}
	return json.Unmarshal(resp.Result, v)
}

func pngFile(size int) *upload.File {
	return &upload.File{
		Name:        "photo.png",
		ContentType: "image/png",
		Data:        bytes.Repeat([]byte{0x89}, size),
	}
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

type recordingNavigator struct {
	listings int
}

func (n *recordingNavigator) GoToListing() { n.listings++ }

func TestCreateItemEndToEnd(t *testing.T) {
	_, client := newTestBackend(t)

	notifier := &recordingNotifier{}
	navigator := &recordingNavigator{}
	orch := catalog.NewOrchestrator(client, notifier, navigator)

	draft := catalog.NewDraft()
	draft.Name = "Milk"
	draft.Description = "Fresh dairy milk"
	draft.Category = catalog.CategoryDairy
	draft.Price = "2.50"
	draft.Image = pngFile(200 * 1024)

	if err := orch.Submit(context.Background(), draft); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if orch.Busy() {
		t.Fatal("orchestrator still busy after submission")
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Catalog item created successfully" {
		t.Fatalf("successes = %v", notifier.successes)
	}
	if navigator.listings != 1 {
		t.Fatalf("listings = %d, want 1", navigator.listings)
	}

	items, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Name != "Milk" || items[0].Category != "dairy" || items[0].Price != "2.50" {
		t.Fatalf("stored item = %+v", items[0])
	}
	if items[0].ID == "" || items[0].Image == "" {
		t.Fatalf("item missing server-assigned fields: %+v", items[0])
	}
}

func TestCreateItemWithoutFileRejected(t *testing.T) {
	_, client := newTestBackend(t)

	_, err := client.CreateItem(context.Background(), backend.ItemUpsert{
		Name: "Milk", Description: "Fresh", Category: "dairy", Price: "2.50",
	})
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if backendErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", backendErr.Status)
	}
}

func TestUpdateItemRoundTrip(t *testing.T) {
	_, client := newTestBackend(t)

	resp, err := client.CreateItem(context.Background(), backend.ItemUpsert{
		Name: "Milk", Description: "Fresh", Category: "dairy", Price: "2.50",
		File: pngFile(64),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	var created backend.CatalogItem
	if err := decodeResult(t, resp, &created); err != nil {
		t.Fatalf("decoding create result: %v", err)
	}

	_, err = client.UpdateItem(context.Background(), backend.ItemUpsert{
		ID: created.ID, Name: "Whole Milk", Description: "Fresh", Category: "dairy", Price: "3.00",
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	item, err := client.GetItem(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Name != "Whole Milk" || item.Price != "3.00" {
		t.Fatalf("updated item = %+v", item)
	}
	if item.Image != created.Image {
		t.Fatalf("image %q changed without a new upload, was %q", item.Image, created.Image)
	}
}

func TestUpdateUnknownItem(t *testing.T) {
	_, client := newTestBackend(t)

	_, err := client.UpdateItem(context.Background(), backend.ItemUpsert{
		ID: "missing", Name: "Milk",
	})
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if backendErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", backendErr.Status)
	}
}

func TestCartAccumulatesDeltas(t *testing.T) {
	srv, client := newTestBackend(t)

	resp, err := client.CreateItem(context.Background(), backend.ItemUpsert{
		Name: "Milk", Description: "Fresh", Category: "dairy", Price: "2.50",
		File: pngFile(64),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	var created backend.CatalogItem
	if err := decodeResult(t, resp, &created); err != nil {
		t.Fatalf("decoding create result: %v", err)
	}

	for _, delta := range []int{3, 2, -1} {
		if _, err := client.UpdateCart(context.Background(), backend.CartUpdate{
			ItemID: created.ID, QuantityDelta: delta, UserID: "u-1",
		}); err != nil {
			t.Fatalf("UpdateCart(%d): %v", delta, err)
		}
	}
	if got := srv.CartQuantity("u-1", created.ID); got != 4 {
		t.Fatalf("cart quantity = %d, want 4", got)
	}

	// Driving the line to zero removes it.
	if _, err := client.UpdateCart(context.Background(), backend.CartUpdate{
		ItemID: created.ID, QuantityDelta: -4, UserID: "u-1",
	}); err != nil {
		t.Fatalf("UpdateCart(-4): %v", err)
	}
	if got := srv.CartQuantity("u-1", created.ID); got != 0 {
		t.Fatalf("cart quantity = %d, want 0", got)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	_, client := newTestBackend(t)

	reg := backend.Registration{
		UserName: "jsmith", Name: "J. Smith",
		PhoneNumber: "5550100", Password: "str0ng!pass", Role: "customer",
	}
	if _, err := client.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := client.Register(context.Background(), reg)
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("second register err = %v, want *backend.Error", err)
	}
	if len(backendErr.Messages) == 0 || !strings.Contains(backendErr.Messages[0], "Username already exists") {
		t.Fatalf("messages = %v", backendErr.Messages)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	_, client := newTestBackend(t)

	_, err := client.Register(context.Background(), backend.Registration{
		UserName: "jsmith", Password: "str0ng!pass", Role: "superuser",
	})
	var backendErr *backend.Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if backendErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", backendErr.Status)
	}
}
