package usecase

// Wire shapes for broker events. Field names are a contract with downstream
// consumers; change with care.

type CustomerCreatedMsg struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
}

type OrderCreatedMsg struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	TotalAmount string `json:"total_amount"`
}
