//go:build integration

package integration

import (
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"
)

// TestOrderDraftLifecycle walks the full cashier flow: create a customer,
// open a draft, add lines, apply a discount, commit, then read the stored
// order back and raise an invoice for it.
func TestOrderDraftLifecycle(t *testing.T) {
	cust := createCustomer(t, "Draft Flow Customer")
	filter := findProduct(t, "FILTER-STD")

	// Open a create-mode draft: totals are VAT-inclusive.
	resp := doPost(t, "/api/drafts/orders", map[string]string{
		"customer_id": cust.ID,
		"mode":        "create",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open draft: expected 201, got %d", resp.StatusCode)
	}
	d := decodeResponse[orderDraftResponse](t, resp)
	resp.Body.Close()

	if d.SessionID == "" {
		t.Fatal("open draft: missing session_id")
	}
	if d.TaxMode != "vat_included" {
		t.Errorf("tax_mode: got %q, want vat_included", d.TaxMode)
	}

	// Add two filters.
	resp = doPost(t, "/api/drafts/orders/"+d.SessionID+"/items", map[string]any{
		"kind":     "product",
		"ref_id":   filter.ID,
		"quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	d = decodeResponse[orderDraftResponse](t, resp)
	resp.Body.Close()

	wantSubtotal := filter.Price * 2
	if !closeTo(d.Totals.Subtotal, wantSubtotal) {
		t.Errorf("subtotal: got %v, want %v", d.Totals.Subtotal, wantSubtotal)
	}
	if len(d.Items) != 1 || d.Items[0].Quantity != 2 {
		t.Fatalf("expected one aggregated line with quantity 2, got %+v", d.Items)
	}

	// Apply a 10% discount.
	resp = doPut(t, "/api/drafts/orders/"+d.SessionID+"/discount", map[string]string{
		"discount": "10%",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set discount: expected 200, got %d", resp.StatusCode)
	}
	d = decodeResponse[orderDraftResponse](t, resp)
	resp.Body.Close()

	if !closeTo(d.Totals.Discount, wantSubtotal*0.10) {
		t.Errorf("discount: got %v, want %v", d.Totals.Discount, wantSubtotal*0.10)
	}
	// VAT-inclusive mode: the grand total is the discounted total.
	if !closeTo(d.Totals.GrandTotal, d.Totals.TotalAfterDiscount) {
		t.Errorf("grand_total %v should equal total_after_discount %v", d.Totals.GrandTotal, d.Totals.TotalAfterDiscount)
	}

	// Commit.
	resp = doPost(t, "/api/drafts/orders/"+d.SessionID+"/commit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit: expected 200, got %d", resp.StatusCode)
	}
	committed := decodeResponse[commitOrderResponse](t, resp)
	resp.Body.Close()

	if committed.Order.ID == "" {
		t.Fatal("commit: missing order id")
	}
	if committed.Order.CustomerID != cust.ID {
		t.Errorf("order customer_id: got %q, want %q", committed.Order.CustomerID, cust.ID)
	}
	if !closeTo(committed.Order.Total, d.Totals.GrandTotal) {
		t.Errorf("order total: got %v, want %v", committed.Order.Total, d.Totals.GrandTotal)
	}

	// The session is gone after a successful commit.
	resp = doGet(t, "/api/drafts/orders/"+d.SessionID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for committed session, got %d", resp.StatusCode)
	}

	// The order is readable through the order endpoints.
	resp = doGet(t, "/api/orders/"+committed.Order.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order: expected 200, got %d", resp.StatusCode)
	}
	stored := decodeResponse[orderResponse](t, resp)
	resp.Body.Close()
	if stored.ID != committed.Order.ID {
		t.Errorf("stored order id mismatch: %q vs %q", stored.ID, committed.Order.ID)
	}

	// Raise an invoice; a second request returns the same invoice.
	resp = doPost(t, "/api/orders/"+committed.Order.ID+"/invoice", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create invoice: expected 201, got %d", resp.StatusCode)
	}
	inv := decodeResponse[invoiceResponse](t, resp)
	resp.Body.Close()
	if inv.Number == "" {
		t.Error("invoice number missing")
	}

	resp = doPost(t, "/api/orders/"+committed.Order.ID+"/invoice", nil)
	again := decodeResponse[invoiceResponse](t, resp)
	resp.Body.Close()
	if again.ID != inv.ID {
		t.Errorf("invoice creation should be idempotent: %q vs %q", again.ID, inv.ID)
	}
}

func TestOrderDraft_UnknownSession(t *testing.T) {
	resp := doGet(t, "/api/drafts/orders/00000000-0000-0000-0000-000000000000")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOrderDraft_StockConflict(t *testing.T) {
	cust := createCustomer(t, "Stock Conflict Customer")
	boiler := findProduct(t, "BOILER-35")

	resp := doPost(t, "/api/drafts/orders", map[string]string{
		"customer_id": cust.ID,
		"mode":        "create",
	})
	d := decodeResponse[orderDraftResponse](t, resp)
	resp.Body.Close()

	resp = doPost(t, "/api/drafts/orders/"+d.SessionID+"/items", map[string]any{
		"kind":     "product",
		"ref_id":   boiler.ID,
		"quantity": boiler.Stock + 1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for quantity above stock, got %d", resp.StatusCode)
	}
}

func TestPackDraftLifecycle(t *testing.T) {
	filter := findProduct(t, "FILTER-STD")
	thermo := findProduct(t, "THERMO-SMART")

	resp := doPost(t, "/api/drafts/packages", map[string]string{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open pack draft: expected 201, got %d", resp.StatusCode)
	}
	type packDraft struct {
		SessionID          string  `json:"session_id"`
		Name               string  `json:"name"`
		EffectiveBasePrice float64 `json:"effective_base_price"`
	}
	d := decodeResponse[packDraft](t, resp)
	resp.Body.Close()

	for _, p := range []productResponse{filter, thermo} {
		resp = doPost(t, "/api/drafts/packages/"+d.SessionID+"/items", map[string]any{
			"ref_id":   p.ID,
			"quantity": 1,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add pack item %s: expected 200, got %d", p.SKU, resp.StatusCode)
		}
		resp.Body.Close()
	}

	name := fmt.Sprintf("Integration Bundle %d", time.Now().UnixNano())
	resp = doPut(t, "/api/drafts/packages/"+d.SessionID+"/details", map[string]any{
		"name": name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set pack details: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/api/drafts/packages/"+d.SessionID+"/commit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit pack: expected 200, got %d", resp.StatusCode)
	}
	saved := decodeResponse[packResponse](t, resp)
	resp.Body.Close()

	if saved.Name != name {
		t.Errorf("pack name: got %q, want %q", saved.Name, name)
	}
	if !closeTo(saved.BasePrice, filter.Price+thermo.Price) {
		t.Errorf("derived base price: got %v, want %v", saved.BasePrice, filter.Price+thermo.Price)
	}
}

func createCustomer(t *testing.T, name string) customerResponse {
	t.Helper()

	resp := doPost(t, "/api/customers", map[string]string{
		"name":  name,
		"phone": "+100000000",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d", resp.StatusCode)
	}
	return decodeResponse[customerResponse](t, resp)
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 0.011
}
