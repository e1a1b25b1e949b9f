package router

import (
	"net/http"

	"patron-studio/app/controller"
)

type Controllers struct {
	Fulfillment *controller.FulfillmentController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Preview images (no persistence, no payment)
	http.HandleFunc("/patterns/previews", controllers.Fulfillment.GeneratePreviews)

	// Free PDF
	http.HandleFunc("/patterns/pdf", controllers.Fulfillment.GenerateBasicPdf)

	// Premium PDF routes
	http.HandleFunc("/patterns/premium-pdf", controllers.Fulfillment.GeneratePremiumPdf)
	http.HandleFunc("/patterns/premium-pdf/send", controllers.Fulfillment.SendPremiumPdf)

	// Coupon-redeemed PDF
	http.HandleFunc("/patterns/coupon-pdf", controllers.Fulfillment.SendCouponPdf)
}
