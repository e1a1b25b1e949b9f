package models

// Code type discriminators for CouponOrPromoCode
const (
	CodeTypeCoupon    = "coupon"
	CodeTypePromoCode = "promocode"
)

// CouponValue is the coupon variant of a discount code
type CouponValue struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}

// PromoCodeValue is the promotion-code variant of a discount code.
// A promotion code is single-use: it is set inactive after one
// successful coupon fulfillment.
type PromoCodeValue struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// CouponOrPromoCode is the tagged union returned by the payment processor
// for a discount-code lookup. Exactly one of Coupon or PromotionCode is set
// on a well-formed value; neither being set means the code does not exist.
type CouponOrPromoCode struct {
	Type          string          `json:"type"` // CodeTypeCoupon or CodeTypePromoCode
	Coupon        *CouponValue    `json:"coupon,omitempty"`
	PromotionCode *PromoCodeValue `json:"promotionCode,omitempty"`
}

// PaymentIntent mirrors the processor's payment-intent, narrowed to the
// fields the fulfillment flows need
type PaymentIntent struct {
	ID            string `json:"id"`
	ClientSecret  string `json:"clientSecret,omitempty"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Amount        int64  `json:"amount"`
}

// PaymentIntentSucceeded is the only intent status that releases the
// premium email
const PaymentIntentSucceeded = "succeeded"

// PaymentPayload carries the customer contact and optional discount code
// attached to a fulfillment request
type PaymentPayload struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Code  string `json:"code,omitempty"` // coupon id or promotion code
}
