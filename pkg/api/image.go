package api

// ImagePrice is the cost breakdown for an image generation run.
type ImagePrice struct {
	PricePerImage  int `json:"price_per_image"`
	QuantityImages int `json:"quantity_images"`
	Total          int `json:"total"`
}

// ImageData is the payload of the image generation endpoint: a zip archive
// URL, the individual image URLs, and the price charged.
type ImageData struct {
	Zip    string     `json:"zip"`
	Images []string   `json:"images"`
	Price  ImagePrice `json:"price"`
}
