package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/store"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// メモリストア + 本物のLedgerでechoを組む
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	uc, err := usecase.NewInventoryUsecase(
		context.Background(),
		store.NewMemoryStore(),
		&fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
	if err != nil {
		t.Fatalf("NewInventoryUsecase failed: %v", err)
	}

	e := echo.New()
	handler.NewProductHandler(uc).RegisterRoutes(e)
	handler.NewTransactionHandler(uc).RegisterRoutes(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func mustDecodeProduct(t *testing.T, body []byte) model.Product {
	t.Helper()
	var p model.Product
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("json.Unmarshal(Product) failed: %v body=%s", err, string(body))
	}
	return p
}

func mustDecodeProducts(t *testing.T, body []byte) []model.Product {
	t.Helper()
	var items []model.Product
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("json.Unmarshal([]Product) failed: %v body=%s", err, string(body))
	}
	return items
}

// =====================
// /products
// =====================

func TestProductHandler_Create_StringAndNumberBodies(t *testing.T) {
	e := newTestServer(t)

	//フォーム由来（全部文字列）
	rec := doJSON(t, e, http.MethodPost, "/products",
		`{"name":"Tea","description":"green","category":"drink","price":"2.5","quantity":"10"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	p := mustDecodeProduct(t, rec.Body.Bytes())
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, 2.5, p.Price)
	assert.Equal(t, int64(10), p.Quantity)

	//素のJSON数値でも同じ
	rec = doJSON(t, e, http.MethodPost, "/products",
		`{"name":"Coffee","price":4,"quantity":3}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	p = mustDecodeProduct(t, rec.Body.Bytes())
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, float64(4), p.Price)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestProductHandler_Create_CoercesBadNumbers(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/products", `{"name":"Tea","price":"abc"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	p := mustDecodeProduct(t, rec.Body.Bytes())
	assert.Equal(t, float64(0), p.Price)
	assert.Equal(t, int64(0), p.Quantity)
}

func TestProductHandler_List(t *testing.T) {
	e := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/products", `{"name":"Tea"}`)
	doJSON(t, e, http.MethodPost, "/products", `{"name":"Coffee"}`)

	rec := doJSON(t, e, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	items := mustDecodeProducts(t, rec.Body.Bytes())
	assert.Len(t, items, 2)
	assert.Equal(t, "Tea", items[0].Name)
	assert.Equal(t, "Coffee", items[1].Name)
}

func TestProductHandler_Update_PartialAndNotFound(t *testing.T) {
	e := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/products",
		`{"name":"Tea","description":"green","price":"2.5","quantity":"10"}`)

	rec := doJSON(t, e, http.MethodPut, "/products/1", `{"price":"9.99"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	p := mustDecodeProduct(t, rec.Body.Bytes())
	assert.Equal(t, 9.99, p.Price)
	assert.Equal(t, "Tea", p.Name)
	assert.Equal(t, int64(10), p.Quantity)

	//存在しないid => 404
	rec = doJSON(t, e, http.MethodPut, "/products/42", `{"price":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	//数値じゃないid => 400
	rec = doJSON(t, e, http.MethodPut, "/products/abc", `{"price":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_Delete_Idempotent(t *testing.T) {
	e := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/products", `{"name":"Tea"}`)

	rec := doJSON(t, e, http.MethodDelete, "/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	//無いidでも成功
	rec = doJSON(t, e, http.MethodDelete, "/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

// =====================
// /transactions, /low-stock, /reports
// =====================

func TestTransactionHandler_RecordAndReport(t *testing.T) {
	e := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/products", `{"name":"Tea","price":"2.5","quantity":"10"}`)

	//売りすぎ => 0でクランプ、更新後の商品が返る
	rec := doJSON(t, e, http.MethodPost, "/transactions", `{"productId":"1","amount":"-15"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	p := mustDecodeProduct(t, rec.Body.Bytes())
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, int64(0), p.Quantity)

	//台帳には要求された量がそのまま残る
	rec = doJSON(t, e, http.MethodGet, "/reports", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var txs []model.Transaction
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	assert.Len(t, txs, 1)
	assert.Equal(t, int64(1), txs[0].ProductID)
	assert.Equal(t, int64(-15), txs[0].Amount)
}

func TestTransactionHandler_Failures(t *testing.T) {
	e := newTestServer(t)

	doJSON(t, e, http.MethodPost, "/products", `{"name":"Tea","quantity":"10"}`)

	rec := doJSON(t, e, http.MethodPost, "/transactions", `{"productId":"1","amount":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid amount"}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/transactions", `{"productId":"99","amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, rec.Body.String())
}

func TestProductHandler_LowStock(t *testing.T) {
	e := newTestServer(t)

	for _, body := range []string{
		`{"name":"A","quantity":"0"}`,
		`{"name":"B","quantity":"4"}`,
		`{"name":"C","quantity":"5"}`,
		`{"name":"D","quantity":"6"}`,
	} {
		doJSON(t, e, http.MethodPost, "/products", body)
	}

	rec := doJSON(t, e, http.MethodGet, "/low-stock", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	items := mustDecodeProducts(t, rec.Body.Bytes())
	assert.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}
