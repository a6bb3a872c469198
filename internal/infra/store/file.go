package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"app/internal/domain/model"
)

// JSONファイル実装。コレクションごとに1ファイル。
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.load("products.json", &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *FileStore) SaveProducts(ctx context.Context, products []model.Product) error {
	return s.save("products.json", products)
}

func (s *FileStore) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := s.load("transactions.json", &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	return transactions, nil
}

func (s *FileStore) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	return s.save("transactions.json", transactions)
}

// ファイルが無いときは空扱い（エラーにしない）
func (s *FileStore) load(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// 一時ファイルに書いてからrename（書き込みはall-or-nothing）
func (s *FileStore) save(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
