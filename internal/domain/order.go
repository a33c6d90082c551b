package domain

type PaymentType string

const (
	PaymentCash       PaymentType = "CASH"
	PaymentCreditCard PaymentType = "CREDIT_CARD"
	PaymentDebitCard  PaymentType = "DEBIT_CARD"
)

type ShippingType string

const (
	ShippingEconomic ShippingType = "ECONOMIC"
	ShippingUrgent   ShippingType = "URGENT"
)

type CarrierType string

const (
	CarrierCorreios CarrierType = "CORREIOS"
	CarrierFedex    CarrierType = "FEDEX"
)

// OrderProduct is a price snapshot taken at order creation. Later catalog
// price changes never touch it.
type OrderProduct struct {
	Code  string `json:"code"`
	Price int64  `json:"price"`
}

type Billing struct {
	Payment    PaymentType `json:"payment"`
	TotalPrice int64       `json:"totalPrice"`
}

type Shipping struct {
	Type    ShippingType `json:"type"`
	Carrier CarrierType  `json:"carrier"`
}

// Order is keyed by (Email, ID): the customer email is the partition key
// and the order id the sort key. ID and CreatedAt are assigned by the
// repository; orders are immutable after creation except for deletion.
type Order struct {
	Email     string         `json:"pk"`
	ID        string         `json:"sk"`
	CreatedAt int64          `json:"createdAt"`
	Products  []OrderProduct `json:"products"`
	Billing   Billing        `json:"billing"`
	Shipping  Shipping       `json:"shipping"`
}

type PlaceOrderRequest struct {
	Email        string       `json:"email" validate:"required,email"`
	ProductIDs   []string     `json:"productIds" validate:"required,min=1,dive,required"`
	PaymentType  PaymentType  `json:"paymentType" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD"`
	CarrierType  CarrierType  `json:"carrierType" validate:"required,oneof=CORREIOS FEDEX"`
	ShippingType ShippingType `json:"shippingType" validate:"required,oneof=ECONOMIC URGENT"`
}
