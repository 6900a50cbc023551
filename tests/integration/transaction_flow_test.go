package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestTransactionFlow(t *testing.T) {
	app := setupApp(t)
	month, year := currentPeriod()
	date := time.Date(year, time.Month(month), 5, 12, 0, 0, 0, time.Local).Format(time.RFC3339)

	// Record an income and two expenses.
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"type":"income","amount":800000,"category":"Sueldo","date":%q}`, date))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
	}
	expenseID := app.createExpense(t, "Comida", 150000, date)
	app.createExpense(t, "Transporte", 50000, date)

	// Monthly stats aggregate the period.
	rec = app.request("GET", fmt.Sprintf("/api/v1/transactions/stats/monthly?month=%d&year=%d", month, year), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats failed: %d %s", rec.Code, rec.Body.String())
	}
	stats := parseJSON(t, rec)["stats"].(map[string]interface{})
	if stats["income"].(float64) != 800000 {
		t.Errorf("unexpected income: %v", stats["income"])
	}
	if stats["expenses"].(float64) != 200000 {
		t.Errorf("unexpected expenses: %v", stats["expenses"])
	}
	if stats["balance"].(float64) != 600000 {
		t.Errorf("unexpected balance: %v", stats["balance"])
	}

	// Filtered listing.
	rec = app.request("GET", "/api/v1/transactions?type=expense&category=Comida", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 filtered entry, got %d", len(data))
	}

	// Update shifts the aggregate.
	rec = app.request("PUT", "/api/v1/transactions/"+expenseID,
		fmt.Sprintf(`{"type":"expense","amount":100000,"category":"Comida","date":%q}`, date))
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/transactions/stats/monthly?month=%d&year=%d", month, year), "")
	stats = parseJSON(t, rec)["stats"].(map[string]interface{})
	if stats["expenses"].(float64) != 150000 {
		t.Errorf("expected expenses 150000 after update, got %v", stats["expenses"])
	}

	// Delete removes it from the ledger.
	rec = app.request("DELETE", "/api/v1/transactions/"+expenseID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/transactions/"+expenseID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestTransactionValidation(t *testing.T) {
	app := setupApp(t)

	cases := []struct {
		name string
		body string
	}{
		{"zero amount", `{"type":"expense","amount":0,"category":"Comida"}`},
		{"negative amount", `{"type":"expense","amount":-100,"category":"Comida"}`},
		{"blank category", `{"type":"expense","amount":1000,"category":"   "}`},
		{"unknown type", `{"type":"transfer","amount":1000,"category":"Comida"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.request("POST", "/api/v1/transactions", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
