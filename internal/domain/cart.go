package domain

// CartLine is one row of the cart, identified by product + size + color.
// Name, price and image are snapshots taken when the line was created.
type CartLine struct {
	ID              string   `json:"id"`
	ProductID       string   `json:"productId"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	ImageURL        string   `json:"imageUrl"`
	Slug            string   `json:"slug"`
	Quantity        int      `json:"quantity"`
	SelectedSize    *string  `json:"selectedSize"`
	SelectedColor   *string  `json:"selectedColor"`
	DataAIHint      string   `json:"dataAiHint,omitempty"`
	AvailableSizes  []string `json:"availableSizes"`
	AvailableColors []string `json:"availableColors"`
}

func (l CartLine) Size() string {
	if l.SelectedSize == nil {
		return ""
	}
	return *l.SelectedSize
}

func (l CartLine) Color() string {
	if l.SelectedColor == nil {
		return ""
	}
	return *l.SelectedColor
}

// LineTotal is for display only; cart totals are summed with decimals.
func (l CartLine) LineTotal() float64 { return l.Price * float64(l.Quantity) }

// OptionalString maps "" to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
