package model

import "time"

//在庫調整の履歴（入庫はプラス、販売はマイナス）

type Transaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"productId"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Date      time.Time `gorm:"not null" json:"date"`
}
