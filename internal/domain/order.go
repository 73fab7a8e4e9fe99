package domain

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "Pending Payment"
	StatusPending        OrderStatus = "Pending"
	StatusProcessing     OrderStatus = "Processing"
	StatusShipped        OrderStatus = "Shipped"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
	StatusRefunded       OrderStatus = "Refunded"
)

var OrderStatuses = []OrderStatus{
	StatusPendingPayment, StatusPending, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusRefunded,
}

var statusLabels = map[OrderStatus]string{
	StatusPendingPayment: "გადახდის მოლოდინში",
	StatusPending:        "მოლოდინში",
	StatusProcessing:     "მუშავდება",
	StatusShipped:        "გაგზავნილია",
	StatusDelivered:      "მიწოდებულია",
	StatusCancelled:      "გაუქმებულია",
	StatusRefunded:       "თანხა დაბრუნებულია",
}

// forward moves along the fulfilment path; Cancelled/Refunded are handled separately.
var forward = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusPending, StatusProcessing},
	StatusPending:        {StatusProcessing},
	StatusProcessing:     {StatusShipped},
	StatusShipped:        {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// CanTransition reports whether an order in state s may move to "to".
// Delivered orders can only be refunded.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if !s.Valid() || !to.Valid() || s.Terminal() || s == to {
		return false
	}
	switch to {
	case StatusRefunded:
		return true
	case StatusCancelled:
		return s != StatusDelivered
	}
	for _, next := range forward[s] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentTBCPay         = "tbc_pay"
)

type OrderLine struct {
	ProductID     string  `db:"product_id" json:"productId"`
	Name          string  `db:"name" json:"name"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`
	ImageURL      string  `db:"image_url" json:"imageUrl,omitempty"`
	Slug          string  `db:"slug" json:"slug,omitempty"`
	SelectedSize  *string `db:"selected_size" json:"selectedSize"`
	SelectedColor *string `db:"selected_color" json:"selectedColor"`
}

func (l OrderLine) LineTotal() float64 { return l.Price * float64(l.Quantity) }

func (l OrderLine) Size() string {
	if l.SelectedSize == nil {
		return ""
	}
	return *l.SelectedSize
}

func (l OrderLine) Color() string {
	if l.SelectedColor == nil {
		return ""
	}
	return *l.SelectedColor
}

type ShippingAddress struct {
	AddressLine1 string `db:"address_line1" json:"addressLine1"`
	AddressLine2 string `db:"address_line2" json:"addressLine2,omitempty"`
	City         string `db:"city" json:"city"`
	PostalCode   string `db:"postal_code" json:"postalCode"`
	Country      string `db:"country" json:"country"`
}

type Order struct {
	ID            string      `db:"id" json:"id"`
	UserID        string      `db:"user_id" json:"userId,omitempty"`
	SessionID     string      `db:"session_id" json:"-"`
	CustomerName  string      `db:"customer_name" json:"customerName"`
	CustomerEmail string      `db:"customer_email" json:"customerEmail"`
	CustomerPhone string      `db:"customer_phone" json:"customerPhone,omitempty"`
	Status        OrderStatus `db:"status" json:"status"`
	ShippingAddress
	Subtotal      float64 `db:"subtotal" json:"subtotal"`
	ShippingCost  float64 `db:"shipping_cost" json:"shippingCost"`
	ServiceFee    float64 `db:"service_fee" json:"serviceFee"`
	TotalAmount   float64 `db:"total_amount" json:"totalAmount"`
	Notes         string  `db:"notes" json:"notes,omitempty"`
	PaymentMethod string  `db:"payment_method" json:"paymentMethod"`
	TransactionID string  `db:"transaction_id" json:"transactionId,omitempty"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
	UpdatedAt     string  `db:"updated_at" json:"updatedAt,omitempty"`

	Products []OrderLine `db:"-" json:"products"`
}
