package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/grocer/internal/database"
	"github.com/dukerupert/grocer/internal/grocery"
)

type apiClient struct {
	t *testing.T
	h http.Handler
}

func setupAPI(t *testing.T, opts Options) *apiClient {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(grocery.New(db, logger), opts, logger)
	return &apiClient{t: t, h: srv.Router()}
}

// do sends body (if non-nil) as JSON and decodes the response into out.
func (c *apiClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type obj = map[string]any

func (c *apiClient) create(path string, body any) obj {
	c.t.Helper()
	var out obj
	code := c.do("POST", path, body, &out)
	require.Equal(c.t, http.StatusCreated, code, out)
	return out
}

func TestHealth(t *testing.T) {
	c := setupAPI(t, Options{})
	var out obj
	assert.Equal(t, http.StatusOK, c.do("GET", "/health", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	c := setupAPI(t, Options{})
	c.do("GET", "/api/categories", nil, nil)

	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grocer_http_requests_total")
}

func TestCategoryEndpoints(t *testing.T) {
	c := setupAPI(t, Options{})

	var verr struct {
		Error   string               `json:"error"`
		Details []grocery.FieldError `json:"details"`
	}
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/categories", obj{"name": ""}, &verr))
	assert.Equal(t, "Validation failed", verr.Error)
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "name", verr.Details[0].Field)

	cat := c.create("/api/categories", obj{"name": "Dairy", "color": "#3b82f6"})
	id := cat["id"].(string)

	var list []obj
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/categories", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Dairy", list[0]["name"])

	var suggested obj
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/categories/suggest?name=yogurt", nil, &suggested))
	assert.Equal(t, id, suggested["id"])

	var updated obj
	assert.Equal(t, http.StatusOK, c.do("PUT", "/api/categories/"+id, obj{"name": "Dairy & Eggs"}, &updated))
	assert.Equal(t, "Dairy & Eggs", updated["name"])

	var msg obj
	assert.Equal(t, http.StatusOK, c.do("DELETE", "/api/categories/"+id, nil, &msg))
	assert.Equal(t, "Category deleted", msg["message"])
	assert.Equal(t, http.StatusNotFound, c.do("DELETE", "/api/categories/"+id, nil, nil))
}

func TestItemEndpoints(t *testing.T) {
	c := setupAPI(t, Options{})
	produce := c.create("/api/categories", obj{"name": "Produce"})

	item := c.create("/api/items", obj{
		"name":            "Bananas",
		"defaultQuantity": 6,
		"categoryId":      produce["id"],
		"imageUrl":        "",
	})
	id := item["id"].(string)
	assert.Equal(t, true, item["available"])
	assert.NotContains(t, item, "imageUrl")

	var got obj
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/items/"+id, nil, &got))
	assert.Equal(t, float64(6), got["defaultQuantity"])
	assert.Equal(t, "Produce", got["category"].(obj)["name"])

	var list []obj
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/items?search=nana&available=true", nil, &list))
	assert.Len(t, list, 1)
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/items?categoryId=nope", nil, &list))
	assert.Empty(t, list)
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/items?available=maybe", nil, nil))

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/items", obj{"name": "x", "defaultQuantity": 0, "categoryId": produce["id"]}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do("PUT", "/api/items/"+id, obj{"name": "x", "defaultQuantity": 1, "categoryId": produce["id"], "price": -2}, nil))

	var upd obj
	assert.Equal(t, http.StatusOK, c.do("PUT", "/api/items/"+id, obj{"name": "Plantains", "defaultQuantity": 2, "categoryId": produce["id"], "available": false}, &upd))
	assert.Equal(t, "Plantains", upd["name"])
	assert.Equal(t, false, upd["available"])

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/items/missing", nil, nil))
	assert.Equal(t, http.StatusOK, c.do("DELETE", "/api/items/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("DELETE", "/api/items/"+id, nil, nil))
}

func TestInvalidJSON(t *testing.T) {
	c := setupAPI(t, Options{})
	req := httptest.NewRequest("POST", "/api/categories", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid JSON"}`, rec.Body.String())
}

func TestShoppingFlow(t *testing.T) {
	c := setupAPI(t, Options{})
	produce := c.create("/api/categories", obj{"name": "Produce"})
	bananas := c.create("/api/items", obj{"name": "Bananas", "defaultQuantity": 6, "categoryId": produce["id"]})
	apples := c.create("/api/items", obj{"name": "Apples", "defaultQuantity": 4, "categoryId": produce["id"]})
	lettuce := c.create("/api/items", obj{"name": "Lettuce", "defaultQuantity": 1, "categoryId": produce["id"]})

	var active obj
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-lists/active", nil, &active))
	listID := active["id"].(string)
	assert.Equal(t, "My Shopping List", active["name"])
	assert.Empty(t, active["items"])

	tpl := c.create("/api/templates", obj{
		"name": "Produce",
		"items": []obj{
			{"itemId": bananas["id"], "quantity": 6},
			{"itemId": apples["id"], "quantity": 4},
			{"itemId": lettuce["id"], "quantity": 1},
		},
	})

	var applied struct {
		Message    string `json:"message"`
		AddedItems []obj  `json:"addedItems"`
		Skipped    int    `json:"skipped"`
	}
	require.Equal(t, http.StatusOK, c.do("POST", "/api/purchase-lists/"+listID+"/add-template", obj{"templateId": tpl["id"]}, &applied))
	assert.Len(t, applied.AddedItems, 3)
	assert.Equal(t, `Added 3 items from template "Produce"`, applied.Message)

	require.Equal(t, http.StatusOK, c.do("POST", "/api/purchase-lists/"+listID+"/add-template", obj{"templateId": tpl["id"]}, &applied))
	assert.Empty(t, applied.AddedItems)
	assert.Equal(t, 3, applied.Skipped)

	assert.Equal(t, http.StatusNotFound, c.do("POST", "/api/purchase-lists/"+listID+"/add-template", obj{"templateId": "missing"}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/purchase-lists/"+listID+"/add-template", obj{}, nil))

	var dup obj
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/purchase-lists/"+listID+"/items", obj{"itemId": bananas["id"], "quantity": 1}, &dup))
	assert.Equal(t, "Item already exists in purchase list", dup["error"])

	var unknown struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/purchase-lists/"+listID+"/items", obj{"itemId": "missing", "quantity": 1}, &unknown))
	assert.Equal(t, "Validation failed", unknown.Error)
	require.Len(t, unknown.Details, 1)
	assert.Equal(t, "itemId", unknown.Details[0].Field)

	var entries []obj
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-lists/"+listID+"/items", nil, &entries))
	require.Len(t, entries, 3)

	var bananaEntry obj
	for _, e := range entries {
		if e["itemId"] == bananas["id"] {
			bananaEntry = e
		}
	}
	require.NotNil(t, bananaEntry)
	entryID := bananaEntry["id"].(string)

	// Item on the active list cannot be deleted.
	assert.Equal(t, http.StatusConflict, c.do("DELETE", "/api/items/"+bananas["id"].(string), nil, nil))

	var upd obj
	require.Equal(t, http.StatusOK, c.do("PUT", "/api/purchase-items/"+entryID, obj{"quantity": 2}, &upd))
	assert.Equal(t, float64(2), upd["quantity"])

	var hist obj
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/purchase-items/"+entryID+"/complete", obj{"price": 3.00}, &hist))
	assert.Equal(t, bananas["id"], hist["itemId"])
	assert.Equal(t, float64(2), hist["quantity"])
	assert.Equal(t, 6.0, hist["totalAmount"])
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/purchase-items/"+entryID, nil, nil))

	// Plain DELETE logs the purchase too; discard does not.
	for _, e := range entries {
		switch e["itemId"] {
		case apples["id"]:
			var out obj
			require.Equal(t, http.StatusOK, c.do("DELETE", "/api/purchase-items/"+e["id"].(string), nil, &out))
			assert.Equal(t, "Purchase item removed successfully", out["message"])
			assert.Equal(t, float64(4), out["history"].(obj)["quantity"])
		case lettuce["id"]:
			require.Equal(t, http.StatusOK, c.do("DELETE", "/api/purchase-items/"+e["id"].(string)+"?discard=true", nil, nil))
		}
	}

	var page struct {
		History       []obj `json:"history"`
		Total         int   `json:"total"`
		MostPurchased []obj `json:"mostPurchased"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-history", nil, &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.MostPurchased, 2)
	assert.Equal(t, "Apples", page.MostPurchased[0]["name"])
	assert.Equal(t, float64(4), page.MostPurchased[0]["totalQuantity"])
	assert.Equal(t, float64(1), page.MostPurchased[0]["purchaseCount"])

	var list obj
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-lists/"+listID, nil, &list))
	assert.Empty(t, list["items"])

	var cleared obj
	require.Equal(t, http.StatusOK, c.do("DELETE", "/api/purchase-history", nil, &cleared))
	assert.Equal(t, float64(2), cleared["deleted"])
}

func TestHistoryEndpoints(t *testing.T) {
	c := setupAPI(t, Options{})
	cat := c.create("/api/categories", obj{"name": "Dairy"})
	milk := c.create("/api/items", obj{"name": "Milk", "defaultQuantity": 1, "categoryId": cat["id"]})

	h := c.create("/api/purchase-history", obj{"itemId": milk["id"], "quantity": 2, "price": 4.99})
	assert.Equal(t, 9.98, h["totalAmount"])
	assert.Equal(t, "Milk", h["item"].(obj)["name"])

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/purchase-history", obj{"itemId": milk["id"], "quantity": 0}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/purchase-history?limit=abc", nil, nil))

	var page struct {
		History []obj `json:"history"`
		Total   int   `json:"total"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-history?limit=1&offset=0", nil, &page))
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.History, 1)
}

func TestPurchaseListEndpoints(t *testing.T) {
	c := setupAPI(t, Options{})

	l := c.create("/api/purchase-lists", obj{"name": "Party", "isActive": false})
	id := l["id"].(string)
	assert.Equal(t, false, l["isActive"])

	var lists []obj
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-lists?isActive=false", nil, &lists))
	assert.Len(t, lists, 1)
	require.Equal(t, http.StatusOK, c.do("GET", "/api/purchase-lists?isActive=true", nil, &lists))
	assert.Empty(t, lists)

	var upd obj
	require.Equal(t, http.StatusOK, c.do("PUT", "/api/purchase-lists/"+id, obj{"name": "BBQ", "isActive": true}, &upd))
	assert.Equal(t, "BBQ", upd["name"])
	assert.Equal(t, true, upd["isActive"])

	assert.Equal(t, http.StatusOK, c.do("DELETE", "/api/purchase-lists/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/purchase-lists/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/purchase-lists/"+id+"/items", nil, nil))
}

func TestUnknownAPIRoute(t *testing.T) {
	c := setupAPI(t, Options{})
	var out obj
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/api/nope", nil, &out))
	assert.Equal(t, "not found", out["error"])
}

func TestRateLimitedAPI(t *testing.T) {
	c := setupAPI(t, Options{RateLimit: 0.001, RateBurst: 2})
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/categories", nil, nil))
	assert.Equal(t, http.StatusOK, c.do("GET", "/api/categories", nil, nil))
	assert.Equal(t, http.StatusTooManyRequests, c.do("GET", "/api/categories", nil, nil))
	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, c.do("GET", "/health", nil, nil))
}
