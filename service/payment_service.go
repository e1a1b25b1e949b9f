package service

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/coupon"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/promotioncode"

	"patron-studio/models"
)

// StripePaymentService talks to Stripe for payment intents and discount
// codes. Implements PaymentServiceInterface.
type StripePaymentService struct{}

// NewStripePaymentService configures the Stripe client with the given
// secret key
func NewStripePaymentService(secretKey string) (*StripePaymentService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY environment variable is not set")
	}
	stripe.Key = secretKey
	return &StripePaymentService{}, nil
}

// Ensure StripePaymentService implements PaymentServiceInterface
var _ PaymentServiceInterface = (*StripePaymentService)(nil)

// CreatePaymentIntent opens an intent for the given amount in euro cents.
// The charge is confirmed client-side with the returned client secret.
func (s *StripePaymentService) CreatePaymentIntent(ctx context.Context, amount int64, payload models.PaymentPayload) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if payload.Email != "" {
		params.ReceiptEmail = stripe.String(payload.Email)
	}
	if payload.Name != "" {
		params.AddMetadata("customer_name", payload.Name)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	log.Printf("💳 Payment intent created: id=%s amount=%d", intent.ID, amount)
	return paymentIntentModel(intent), nil
}

// RetrievePaymentIntent re-fetches the current state of an intent
func (s *StripePaymentService) RetrievePaymentIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", id, err)
	}

	return paymentIntentModel(intent), nil
}

// GetCouponOrPromoCode looks the code up as a coupon first, then as a
// promotion code. A code matching neither yields an empty union, which
// fails validation downstream.
func (s *StripePaymentService) GetCouponOrPromoCode(ctx context.Context, code string) (*models.CouponOrPromoCode, error) {
	couponParams := &stripe.CouponParams{}
	couponParams.Context = ctx

	if c, err := coupon.Get(code, couponParams); err == nil {
		return &models.CouponOrPromoCode{
			Type:   models.CodeTypeCoupon,
			Coupon: &models.CouponValue{ID: c.ID, Valid: c.Valid},
		}, nil
	}

	listParams := &stripe.PromotionCodeListParams{
		Code: stripe.String(code),
	}
	listParams.Context = ctx

	iter := promotioncode.List(listParams)
	for iter.Next() {
		pc := iter.PromotionCode()
		return &models.CouponOrPromoCode{
			Type: models.CodeTypePromoCode,
			PromotionCode: &models.PromoCodeValue{
				ID:     pc.ID,
				Code:   pc.Code,
				Active: pc.Active,
			},
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to look up promotion code %s: %w", code, err)
	}

	// Neither a coupon nor a promotion code
	return &models.CouponOrPromoCode{}, nil
}

// SetPromotionCodeInactive consumes a single-use promotion code
func (s *StripePaymentService) SetPromotionCodeInactive(ctx context.Context, id string) error {
	params := &stripe.PromotionCodeParams{
		Active: stripe.Bool(false),
	}
	params.Context = ctx

	if _, err := promotioncode.Update(id, params); err != nil {
		return fmt.Errorf("failed to deactivate promotion code %s: %w", id, err)
	}

	log.Printf("🎟️  Promotion code deactivated: %s", id)
	return nil
}

// paymentIntentModel narrows a Stripe intent to the fields the flows need
func paymentIntentModel(intent *stripe.PaymentIntent) *models.PaymentIntent {
	result := &models.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
	}
	if intent.PaymentMethod != nil {
		result.PaymentMethod = intent.PaymentMethod.ID
	}
	return result
}
