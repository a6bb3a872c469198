package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// これ未満なら要補充
const LowStockThreshold = 5

type Clock interface {
	Now() time.Time
}

// InventoryUsecase は商品カタログと取引台帳を持つ。
// 両コレクションの唯一の書き手。更新は全て同じクリティカルセクションを通す。
type InventoryUsecase struct {
	store repo.Store
	clock Clock

	mu           sync.RWMutex
	products     []model.Product
	transactions []model.Transaction
}

// 起動時に両コレクションを読み込む。読み込み失敗は空カタログに
// 化けさせず、そのままエラーで返す。
func NewInventoryUsecase(ctx context.Context, store repo.Store, clock Clock) (*InventoryUsecase, error) {
	products, err := store.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	transactions, err := store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	return &InventoryUsecase{
		store:        store,
		clock:        clock,
		products:     products,
		transactions: transactions,
	}, nil
}

// 入力は全て未検証のテキスト。数値の解釈はこちらで行う。
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       string
	Quantity    string
}

type TransactionInput struct {
	ProductID string
	Amount    string
}

func (u *InventoryUsecase) ListProducts(ctx context.Context) []model.Product {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return copyProducts(u.products)
}

// 数値が読めない入力は0に倒す（拒否しない）。id は最大値+1。
func (u *InventoryUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	p := model.Product{
		ID:          maxProductID(u.products) + 1,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
	}
	if v, err := parsePrice(in.Price); err == nil {
		p.Price = v
	}
	if v, err := parseQuantity(in.Quantity); err == nil {
		p.Quantity = v
	}

	next := append(copyProducts(u.products), p)
	if err := u.store.SaveProducts(ctx, next); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	u.products = next
	return p, nil
}

// 部分更新。空・欠落・数値として読めないフィールドは現状維持。
func (u *InventoryUsecase) UpdateProduct(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := indexOfProduct(u.products, id)
	if idx < 0 {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	next := copyProducts(u.products)
	p := next[idx]

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if v, err := parsePrice(in.Price); err == nil {
		p.Price = v
	}
	if v, err := parseQuantity(in.Quantity); err == nil {
		p.Quantity = v
	}

	next[idx] = p
	if err := u.store.SaveProducts(ctx, next); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	u.products = next
	return p, nil
}

// 対象が無くても成功（冪等）。その場合は保存もしない。
func (u *InventoryUsecase) DeleteProduct(ctx context.Context, id int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	next := make([]model.Product, 0, len(u.products))
	for _, p := range u.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(u.products) {
		return nil
	}

	if err := u.store.SaveProducts(ctx, next); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	u.products = next
	return nil
}

// 在庫の増減と取引の記録をひとまとまりで行う。
// 在庫はマイナスにしない（0でクランプ）。取引には要求された量をそのまま残す。
func (u *InventoryUsecase) RecordTransaction(ctx context.Context, in TransactionInput) (model.Product, error) {
	productID, err := strconv.ParseInt(strings.TrimSpace(in.ProductID), 10, 64)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(in.Amount), 10, 64)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	idx := indexOfProduct(u.products, productID)
	if idx < 0 {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	nextProducts := copyProducts(u.products)
	p := nextProducts[idx]
	p.Quantity += amount
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	nextProducts[idx] = p

	tx := model.Transaction{
		ID:        int64(len(u.transactions)) + 1,
		ProductID: productID,
		Amount:    amount,
		Date:      u.clock.Now(),
	}
	nextTransactions := append(copyTransactions(u.transactions), tx)

	if err := u.store.SaveProducts(ctx, nextProducts); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	if err := u.store.SaveTransactions(ctx, nextTransactions); err != nil {
		// 在庫だけ更新された状態を残さないよう巻き戻す
		_ = u.store.SaveProducts(ctx, u.products)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}

	u.products = nextProducts
	u.transactions = nextTransactions
	return p, nil
}

// 現在のカタログからの射影。状態は持たない。
func (u *InventoryUsecase) ListLowStock(ctx context.Context) []model.Product {
	u.mu.RLock()
	defer u.mu.RUnlock()

	low := []model.Product{}
	for _, p := range u.products {
		if p.Quantity < LowStockThreshold {
			low = append(low, p)
		}
	}
	return low
}

func (u *InventoryUsecase) ListTransactions(ctx context.Context) []model.Transaction {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return copyTransactions(u.transactions)
}

// 0未満は不正扱い（quantity >= 0 / price >= 0 の不変条件）
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price")
	}
	return v, nil
}

func parseQuantity(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative quantity")
	}
	return v, nil
}

func maxProductID(products []model.Product) int64 {
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func indexOfProduct(products []model.Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func copyProducts(src []model.Product) []model.Product {
	dst := make([]model.Product, len(src))
	copy(dst, src)
	return dst
}

func copyTransactions(src []model.Transaction) []model.Transaction {
	dst := make([]model.Transaction, len(src))
	copy(dst, src)
	return dst
}
