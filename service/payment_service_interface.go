package service

import (
	"context"

	"patron-studio/models"
)

// PaymentServiceInterface defines the contract for the payment processor
type PaymentServiceInterface interface {
	// CreatePaymentIntent opens a payment intent for the given amount in
	// cents; the charge itself is confirmed client-side out of band
	CreatePaymentIntent(ctx context.Context, amount int64, payload models.PaymentPayload) (*models.PaymentIntent, error)
	// RetrievePaymentIntent re-fetches the current state of an intent
	RetrievePaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error)
	// GetCouponOrPromoCode looks up a discount code as either a coupon or
	// a promotion code
	GetCouponOrPromoCode(ctx context.Context, code string) (*models.CouponOrPromoCode, error)
	// SetPromotionCodeInactive consumes a single-use promotion code
	SetPromotionCodeInactive(ctx context.Context, id string) error
}
