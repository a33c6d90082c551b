package domain

type ProductEventType string

const (
	ProductCreated ProductEventType = "CREATED"
	ProductUpdated ProductEventType = "UPDATED"
	ProductDeleted ProductEventType = "DELETED"
)

// ProductEvent is the payload handed to the invocation transport after a
// catalog mutation succeeds.
type ProductEvent struct {
	RequestID    string           `json:"requestId"`
	EventType    ProductEventType `json:"eventType"`
	ProductID    string           `json:"productId"`
	ProductCode  string           `json:"productCode"`
	ProductPrice int64            `json:"productPrice"`
	Email        string           `json:"email"`
}

// ProductEventRecord is the write-once audit record the recorder persists.
// Timestamps are unix milliseconds; TTL is unix seconds, 5 minutes past
// creation, purged passively by the store sweep.
type ProductEventRecord struct {
	PK        string           `json:"pk"`
	SK        string           `json:"sk"`
	Email     string           `json:"email"`
	CreatedAt int64            `json:"createdAt"`
	RequestID string           `json:"requestId"`
	EventType ProductEventType `json:"eventType"`
	TTL       int64            `json:"ttl"`
	Info      ProductEventInfo `json:"info"`
}

type ProductEventInfo struct {
	ProductID string `json:"productId"`
	Price     int64  `json:"price"`
}
