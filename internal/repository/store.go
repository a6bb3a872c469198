package repository

import (
	"app/internal/domain/model"
	"context"
)

// 商品と取引のスナップショット保存・取得だけを約束。
// データが無いときは空スライスを返す（エラーではない）。
// Saveはコレクション単位で全量置き換え（all-or-nothing）。
type Store interface {
	LoadProducts(ctx context.Context) ([]model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error

	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
}
