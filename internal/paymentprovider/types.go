package paymentprovider

// CreateSubscriptionRequest запрос на создание подписки по тарифному плану.
type CreateSubscriptionRequest struct {
	PlanID         string `json:"plan_id"`
	CustomerNotify int    `json:"customer_notify"`
	TotalCount     int    `json:"total_count"`
}

// Subscription состояние подписки у провайдера.
type Subscription struct {
	ID        string `json:"id"`
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"` // created, active, cancelled
	CreatedAt int64  `json:"created_at"`
}

// SubscriptionList страница списка подписок.
type SubscriptionList struct {
	Count int            `json:"count"`
	Items []Subscription `json:"items"`
}
