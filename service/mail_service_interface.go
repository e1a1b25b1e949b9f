package service

import (
	"context"

	"patron-studio/models"
)

// MailServiceInterface defines the contract for the mail transport
type MailServiceInterface interface {
	SendFreePattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile) error
	SendPremiumPattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile, intent *models.PaymentIntent) error
	SendCouponPattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile, couponID string) error
}
