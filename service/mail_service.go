package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/resend/resend-go/v2"

	"patron-studio/models"
	"patron-studio/utils"
)

// Email body templates. Visual design lives in the shop's brand styles;
// these stay intentionally plain.
const mailTemplates = `
{{define "free"}}
<p>Hi {{.CustomerName}},</p>
<p>Your pattern <strong>{{.PatternName}}</strong> is ready.</p>
<p><a href="{{.FileURL}}">Download your PDF</a></p>
<p>Happy sewing!</p>
{{end}}

{{define "premium"}}
<p>Hi {{.CustomerName}},</p>
<p>Thank you for your purchase of <strong>{{.PatternName}}</strong> ({{.AmountPaid}}).</p>
<p><a href="{{.FileURL}}">Download your premium PDF</a></p>
<p>Happy sewing!</p>
{{end}}

{{define "coupon"}}
<p>Hi {{.CustomerName}},</p>
<p>Your code <strong>{{.CouponID}}</strong> was redeemed for <strong>{{.PatternName}}</strong>.</p>
<p><a href="{{.FileURL}}">Download your premium PDF</a></p>
<p>Happy sewing!</p>
{{end}}
`

// mailData is the data set shared by the three email bodies
type mailData struct {
	CustomerName string
	PatternName  string
	FileURL      string
	AmountPaid   string
	CouponID     string
}

// ResendMailService sends templated pattern emails through Resend.
// Implements MailServiceInterface.
type ResendMailService struct {
	client *resend.Client
	from   string
	tmpl   *template.Template
}

// NewResendMailService creates a new ResendMailService.
// from is the sender address, e.g. "Patron Studio <hello@patron.studio>".
func NewResendMailService(apiKey, from string) (*ResendMailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is not set")
	}
	if from == "" {
		return nil, fmt.Errorf("MAIL_FROM environment variable is not set")
	}

	return &ResendMailService{
		client: resend.NewClient(apiKey),
		from:   from,
		tmpl:   template.Must(template.New("mail").Parse(mailTemplates)),
	}, nil
}

// Ensure ResendMailService implements MailServiceInterface
var _ MailServiceInterface = (*ResendMailService)(nil)

// SendFreePattern delivers a free pattern download link
func (s *ResendMailService) SendFreePattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile) error {
	subject := fmt.Sprintf("Your pattern %s is ready", pattern.Name)
	data := mailData{
		CustomerName: customerName(payload),
		PatternName:  pattern.Name,
		FileURL:      file.URL,
	}
	return s.send(ctx, "free", payload.Email, subject, data)
}

// SendPremiumPattern delivers a purchased pattern with the amount paid
func (s *ResendMailService) SendPremiumPattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile, intent *models.PaymentIntent) error {
	subject := fmt.Sprintf("Your premium pattern %s is ready", pattern.Name)
	data := mailData{
		CustomerName: customerName(payload),
		PatternName:  pattern.Name,
		FileURL:      file.URL,
		AmountPaid:   utils.FormatEUR(intent.Amount),
	}
	return s.send(ctx, "premium", payload.Email, subject, data)
}

// SendCouponPattern delivers a pattern redeemed with a coupon or
// promotion code
func (s *ResendMailService) SendCouponPattern(ctx context.Context, payload models.PaymentPayload, pattern *models.Pattern, file *models.StoredFile, couponID string) error {
	subject := fmt.Sprintf("Your premium pattern %s is ready", pattern.Name)
	data := mailData{
		CustomerName: customerName(payload),
		PatternName:  pattern.Name,
		FileURL:      file.URL,
		CouponID:     couponID,
	}
	return s.send(ctx, "coupon", payload.Email, subject, data)
}

// send renders the named body template and dispatches the email
func (s *ResendMailService) send(ctx context.Context, templateName, to, subject string, data mailData) error {
	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to render %s email body: %w", templateName, err)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", templateName, to, err)
	}

	log.Printf("📧 Email sent: template=%s to=%s", templateName, to)
	return nil
}

// customerName falls back to a friendly default when no name was supplied
func customerName(payload models.PaymentPayload) string {
	if payload.Name != "" {
		return payload.Name
	}
	return "there"
}
