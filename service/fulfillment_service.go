package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"patron-studio/models"
	"patron-studio/repository"
)

const (
	// defaultPremiumPriceCents is the fixed price of a premium pattern
	defaultPremiumPriceCents = 1200

	// Client-facing validation messages, surfaced verbatim
	msgCouponInvalid     = "This coupon is not valid anymore."
	msgPromoCodeInactive = "This promotion code is not active anymore."
	msgNoSuchCode        = "There is no such coupon or promotion code."
	msgFileMissing       = "We could not find your pattern file."
	msgPatternMissing    = "We could not find your pattern."
	msgNoPaymentMethod   = "Your payment has no payment method attached."
	msgPaymentIncomplete = "Your payment has not been completed yet."
)

// documentPdfOptions is the fixed page geometry for pattern documents
var documentPdfOptions = PdfOptions{
	MarginTop:    12,
	MarginBottom: 14,
	MarginLeft:   8,
	MarginRight:  8,
}

// FulfillmentService runs the per-request fulfillment flows: previews,
// free PDFs, premium PDFs gated behind payment confirmation, and
// coupon-redeemed PDFs. It holds no cross-request state besides the
// shared rendering engine.
type FulfillmentService struct {
	pdfData      *PdfDataService
	renderer     TemplateRendererInterface
	engine       PdfEngineInterface
	patterns     repository.PatternRepositoryInterface
	files        FileStoreInterface
	payments     PaymentServiceInterface
	mail         MailServiceInterface
	premiumPrice int64
}

// NewFulfillmentService creates a new FulfillmentService. A zero
// premiumPrice falls back to the default.
func NewFulfillmentService(
	pdfData *PdfDataService,
	renderer TemplateRendererInterface,
	engine PdfEngineInterface,
	patterns repository.PatternRepositoryInterface,
	files FileStoreInterface,
	payments PaymentServiceInterface,
	mail MailServiceInterface,
	premiumPrice int64,
) *FulfillmentService {
	if premiumPrice == 0 {
		premiumPrice = defaultPremiumPriceCents
	}
	return &FulfillmentService{
		pdfData:      pdfData,
		renderer:     renderer,
		engine:       engine,
		patterns:     patterns,
		files:        files,
		payments:     payments,
		mail:         mail,
		premiumPrice: premiumPrice,
	}
}

// CheckCouponOrPromoCode validates a discount-code lookup result. Each
// failure cause carries exactly one client-facing message.
func CheckCouponOrPromoCode(code *models.CouponOrPromoCode) error {
	switch {
	case code != nil && code.Type == models.CodeTypeCoupon && code.Coupon != nil:
		if !code.Coupon.Valid {
			return NewClientError(msgCouponInvalid)
		}
		return nil
	case code != nil && code.Type == models.CodeTypePromoCode && code.PromotionCode != nil:
		if !code.PromotionCode.Active {
			return NewClientError(msgPromoCodeInactive)
		}
		return nil
	default:
		return NewClientError(msgNoSuchCode)
	}
}

// GeneratePreviews renders both preview variants as base64-encoded
// images. No persistence, no payment, no email.
func (s *FulfillmentService) GeneratePreviews(ctx context.Context, req *models.PatternRequest, size string) (*models.PreviewResult, error) {
	data, err := s.pdfData.Assemble(ctx, req.Name, req.Pieces, req.Assets, true)
	if err != nil {
		return nil, err
	}

	basicMarkup, err := s.renderer.Render(TemplatePreviewBasic, data)
	if err != nil {
		return nil, err
	}
	premiumMarkup, err := s.renderer.Render(TemplatePreviewPremium, data)
	if err != nil {
		return nil, err
	}

	pageCtx, closePage, err := s.engine.Page(ctx)
	if err != nil {
		return nil, err
	}
	defer closePage()

	basic, err := s.engine.Rasterize(pageCtx, basicMarkup)
	if err != nil {
		return nil, err
	}
	premium, err := s.engine.Rasterize(pageCtx, premiumMarkup)
	if err != nil {
		return nil, err
	}

	if size == PreviewSizeThumb {
		if basic, err = OptimizePreview(basic, size); err != nil {
			return nil, err
		}
		if premium, err = OptimizePreview(premium, size); err != nil {
			return nil, err
		}
	}

	return &models.PreviewResult{
		Basic:   base64.StdEncoding.EncodeToString(basic),
		Premium: base64.StdEncoding.EncodeToString(premium),
	}, nil
}

// GenerateBasicPdf runs the free flow: assemble, render, persist the
// pattern and file, then email the download link synchronously.
func (s *FulfillmentService) GenerateBasicPdf(ctx context.Context, req *models.PatternRequest) (*models.FulfillmentResult, error) {
	data, err := s.pdfData.Assemble(ctx, req.Name, req.Pieces, req.Assets, false)
	if err != nil {
		return nil, err
	}

	pattern, file, err := s.produceDocument(ctx, data, TemplateDocumentBasic)
	if err != nil {
		return nil, err
	}

	if err := s.mail.SendFreePattern(ctx, req.Payment, pattern, file); err != nil {
		return nil, err
	}

	log.Printf("✅ Free pattern fulfilled: pattern=%s file=%s", pattern.ID, file.ID)
	return &models.FulfillmentResult{FileID: file.ID, PatternID: pattern.ID}, nil
}

// GeneratePremiumPdf runs the premium pre-confirmation flow. When a
// discount code is supplied it is validated up front; otherwise a payment
// intent is opened for the fixed premium price. The document is produced
// either way, since it must exist before the client can complete payment.
// No email is sent until the payment is re-verified server-side.
func (s *FulfillmentService) GeneratePremiumPdf(ctx context.Context, req *models.PatternRequest) (*models.FulfillmentResult, error) {
	var intent *models.PaymentIntent
	if req.Payment.Code != "" {
		code, err := s.payments.GetCouponOrPromoCode(ctx, req.Payment.Code)
		if err != nil {
			return nil, err
		}
		if err := CheckCouponOrPromoCode(code); err != nil {
			return nil, err
		}
	} else {
		var err error
		intent, err = s.payments.CreatePaymentIntent(ctx, s.premiumPrice, req.Payment)
		if err != nil {
			return nil, err
		}
	}

	data, err := s.pdfData.Assemble(ctx, req.Name, req.Pieces, req.Assets, true)
	if err != nil {
		return nil, err
	}

	pattern, file, err := s.produceDocument(ctx, data, TemplateDocumentPremium)
	if err != nil {
		return nil, err
	}

	result := &models.FulfillmentResult{FileID: file.ID, PatternID: pattern.ID}
	if intent != nil {
		result.PaymentID = intent.ID
		result.ClientSecret = intent.ClientSecret
	}

	log.Printf("✅ Premium pattern prepared: pattern=%s file=%s paymentIntent=%s", pattern.ID, file.ID, result.PaymentID)
	return result, nil
}

// SendPremiumPdf runs the premium post-confirmation send. Payment
// confirmation is an asynchronous client-side step, so the payment is
// independently re-verified here before the email goes out.
func (s *FulfillmentService) SendPremiumPdf(ctx context.Context, req *models.SendPremiumRequest) error {
	file, err := s.files.GetFile(ctx, req.FileID)
	if err != nil {
		return err
	}
	pattern, err := s.patterns.GetPattern(ctx, req.PatternID)
	if err != nil {
		return err
	}
	intent, err := s.payments.RetrievePaymentIntent(ctx, req.PaymentID)
	if err != nil {
		return err
	}

	if intent.PaymentMethod == "" {
		return NewClientError(msgNoPaymentMethod)
	}
	if intent.Status != models.PaymentIntentSucceeded {
		return NewClientError(msgPaymentIncomplete)
	}
	if file == nil {
		return NewClientError(msgFileMissing)
	}
	if pattern == nil {
		return NewClientError(msgPatternMissing)
	}

	if err := s.mail.SendPremiumPattern(ctx, req.Payment, pattern, file, intent); err != nil {
		return err
	}

	log.Printf("✅ Premium pattern delivered: pattern=%s file=%s payment=%s", pattern.ID, file.ID, intent.ID)
	return nil
}

// SendCouponPdf runs the coupon flow. Validation happens before any
// rendering or persistence, and a promotion code is consumed only after
// a successful send.
func (s *FulfillmentService) SendCouponPdf(ctx context.Context, req *models.PatternRequest) (*models.FulfillmentResult, error) {
	code, err := s.payments.GetCouponOrPromoCode(ctx, req.Payment.Code)
	if err != nil {
		return nil, err
	}
	if err := CheckCouponOrPromoCode(code); err != nil {
		return nil, err
	}

	data, err := s.pdfData.Assemble(ctx, req.Name, req.Pieces, req.Assets, true)
	if err != nil {
		return nil, err
	}

	pattern, file, err := s.produceDocument(ctx, data, TemplateDocumentPremium)
	if err != nil {
		return nil, err
	}

	couponID := resolvedCodeID(code)
	if err := s.mail.SendCouponPattern(ctx, req.Payment, pattern, file, couponID); err != nil {
		return nil, err
	}

	// Single-use enforcement for promotion codes only; multi-use coupons
	// stay valid
	if code.Type == models.CodeTypePromoCode && code.PromotionCode != nil {
		if err := s.payments.SetPromotionCodeInactive(ctx, code.PromotionCode.ID); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Coupon pattern fulfilled: pattern=%s file=%s code=%s", pattern.ID, file.ID, couponID)
	return &models.FulfillmentResult{FileID: file.ID, PatternID: pattern.ID}, nil
}

// resolvedCodeID returns the processor-side id of a validated discount
// code, never the raw user-supplied string
func resolvedCodeID(code *models.CouponOrPromoCode) string {
	switch {
	case code.Coupon != nil:
		return code.Coupon.ID
	case code.PromotionCode != nil:
		return code.PromotionCode.ID
	default:
		return ""
	}
}

// produceDocument is the shared render-persist-convert-store tail of the
// free, premium and coupon flows: render markup and footer, persist the
// pattern record, print the PDF and store it. There is no compensation
// for records created before a later step fails.
func (s *FulfillmentService) produceDocument(ctx context.Context, data *models.PatternData, templateID string) (*models.Pattern, *models.StoredFile, error) {
	markup, err := s.renderer.Render(templateID, data)
	if err != nil {
		return nil, nil, err
	}
	footer, err := s.renderer.Render(TemplateFooter, data)
	if err != nil {
		return nil, nil, err
	}

	pattern, err := s.patterns.CreatePattern(ctx, data.Name, data.Pieces)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern fulfillment failed: %w", err)
	}

	pageCtx, closePage, err := s.engine.Page(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern fulfillment failed: %w", err)
	}
	defer closePage()

	opts := documentPdfOptions
	opts.FooterHTML = footer
	pdf, err := s.engine.RenderPdf(pageCtx, markup, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern fulfillment failed: %w", err)
	}

	file, err := s.files.CreateFile(ctx, fmt.Sprintf("pattern-%s.pdf", pattern.ID), pdf)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern fulfillment failed: %w", err)
	}

	return pattern, file, nil
}
