package model

type Product struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"type:varchar(255)" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
}
