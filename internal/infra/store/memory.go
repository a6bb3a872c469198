package store

import (
	"context"
	"sync"

	"app/internal/domain/model"
)

// 開発・テスト用のインメモリ実装
type MemoryStore struct {
	mu           sync.Mutex
	products     []model.Product
	transactions []model.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProducts(s.products), nil
}

func (s *MemoryStore) SaveProducts(ctx context.Context, products []model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = copyProducts(products)
	return nil
}

func (s *MemoryStore) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTransactions(s.transactions), nil
}

func (s *MemoryStore) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = copyTransactions(transactions)
	return nil
}

// 呼び出し側と内部状態を共有しないようコピーを返す
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
