package store

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

// Postgres実装。スナップショット保存は全量置き換え。
type GormStore struct {
	db *gorm.DB
}

// DI
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// 1トランザクション内で delete all → insert（all-or-nothing）
func (s *GormStore) SaveProducts(ctx context.Context, products []model.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
}

func (s *GormStore) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *GormStore) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.Transaction{}).Error; err != nil {
			return err
		}
		if len(transactions) == 0 {
			return nil
		}
		return tx.Create(&transactions).Error
	})
}
