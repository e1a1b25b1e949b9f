package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"patron-studio/models"
	"patron-studio/service"
)

// genericErrorMessage is shown for unexpected internal failures; details
// stay in the server log
const genericErrorMessage = "A problem occurred while generating your pattern."

// FulfillmentController handles HTTP requests for the PDF fulfillment
// flows
type FulfillmentController struct {
	fulfillment *service.FulfillmentService
}

// NewFulfillmentController creates a new FulfillmentController
func NewFulfillmentController(fulfillment *service.FulfillmentService) *FulfillmentController {
	return &FulfillmentController{fulfillment: fulfillment}
}

// GeneratePreviews handles POST /patterns/previews
// Renders the basic and premium preview images without persisting
// anything. Optional ?size=thumb returns downscaled previews.
func (c *FulfillmentController) GeneratePreviews(w http.ResponseWriter, r *http.Request) {
	var req models.PatternRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = service.PreviewSizeFull
	}

	result, err := c.fulfillment.GeneratePreviews(r.Context(), &req, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

// GenerateBasicPdf handles POST /patterns/pdf (free flow)
func (c *FulfillmentController) GenerateBasicPdf(w http.ResponseWriter, r *http.Request) {
	var req models.PatternRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := c.fulfillment.GenerateBasicPdf(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

// GeneratePremiumPdf handles POST /patterns/premium-pdf
// (premium pre-confirmation flow)
func (c *FulfillmentController) GeneratePremiumPdf(w http.ResponseWriter, r *http.Request) {
	var req models.PatternRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := c.fulfillment.GeneratePremiumPdf(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

// SendPremiumPdf handles POST /patterns/premium-pdf/send
// (premium post-confirmation send)
func (c *FulfillmentController) SendPremiumPdf(w http.ResponseWriter, r *http.Request) {
	var req models.SendPremiumRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := c.fulfillment.SendPremiumPdf(r.Context(), &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "sent"})
}

// SendCouponPdf handles POST /patterns/coupon-pdf (coupon flow)
func (c *FulfillmentController) SendCouponPdf(w http.ResponseWriter, r *http.Request) {
	var req models.PatternRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := c.fulfillment.SendCouponPdf(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

// decodeRequest decodes the JSON request body, writing a 400 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps validation failures to a 400 with their verbatim
// message; everything else is logged and masked behind the generic
// message
func writeError(w http.ResponseWriter, err error) {
	if service.IsClientError(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("❌ Fulfillment failed: %v", err)
	http.Error(w, genericErrorMessage, http.StatusInternalServerError)
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}
