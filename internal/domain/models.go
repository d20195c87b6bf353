package domain

type ProductOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []ProductOption `json:"options"`
	Images      []string        `json:"images"` // relative paths like /uploads/<file>
}

// CartItem is a purchase snapshot: option name and price are frozen at
// add-time so later catalog edits never reach a placed order.
type CartItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Option    string  `json:"option"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

const StatusPending = "Pending"

type Order struct {
	ID              int64        `json:"id"` // creation unix-millis; sort/identity key
	UserID          int64        `json:"userId"`
	Username        string       `json:"username"`
	Items           []CartItem   `json:"items"`
	CashappUsername string       `json:"cashappUsername"`
	Shipping        ShippingInfo `json:"shippingInfo"`
	UserNotes       string       `json:"userNotes"`
	Status          string       `json:"status"`
	TrackingNumber  string       `json:"trackingNumber"`
	AdminNotes      string       `json:"adminNotes"`
	CreatedAt       string       `json:"createdAt"`
}
