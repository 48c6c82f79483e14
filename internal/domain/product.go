package domain

type Product struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:50"`
	Color       string  `json:"color" gorm:"size:50"`
	ImageURL    string  `json:"image_url" gorm:"size:200"`
	Description string  `json:"description" gorm:"size:300"`
	Price       float64 `json:"price"`
}
