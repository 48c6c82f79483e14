package product

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Color       string  `json:"color" binding:"max=50"`
	ImageURL    string  `json:"image_url" binding:"max=200"`
	Description string  `json:"description" binding:"max=300"`
	Price       float64 `json:"price"`
}
