package models

// PatternRequest is the request body shared by the preview, free, premium
// and coupon endpoints.
// Example: {"name": "Raglan Hoodie", "pieces": [...], "assets": [...],
//           "payment": {"email": "ana@example.com"}}
type PatternRequest struct {
	Name    string         `json:"name"`
	Pieces  []PatternPiece `json:"pieces"`
	Assets  []PatternAsset `json:"assets"`
	Payment PaymentPayload `json:"payment"`
}

// SendPremiumRequest is the request body for the post-confirmation send.
// FileID/PatternID/PaymentID come from the earlier premium response.
type SendPremiumRequest struct {
	FileID    string         `json:"fileId"`
	PatternID string         `json:"patternId"`
	PaymentID string         `json:"paymentId"`
	Payment   PaymentPayload `json:"payment"`
}

// FulfillmentResult is returned to the caller of the free, premium and
// coupon flows. PaymentID/ClientSecret are present only on the premium
// pre-confirmation path.
type FulfillmentResult struct {
	FileID       string `json:"fileId"`
	PatternID    string `json:"patternId"`
	PaymentID    string `json:"paymentId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// PreviewResult carries the two rasterized previews as base64 PNG strings
type PreviewResult struct {
	Basic   string `json:"basic"`
	Premium string `json:"premium"`
}
