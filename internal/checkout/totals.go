package checkout

import (
	"math"
	"strings"

	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/store"
)

// CourierDeliveryFee is the flat surcharge for courier delivery.
const CourierDeliveryFee = 300.0

// CardCommissionRate is the card-payment commission applied to the subtotal.
const CardCommissionRate = 0.02

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Commission  float64 `json:"commission"`
	Total       float64 `json:"total"`
}

// Calculate sums the selected lines and applies the delivery and payment
// surcharges. Pickup plus cash reduces to Total == Subtotal exactly.
func Calculate(lines []store.CartLine, courier, card bool) Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	subtotal = round2(subtotal)

	t := Totals{Subtotal: subtotal}
	if courier {
		t.DeliveryFee = CourierDeliveryFee
	}
	if card {
		t.Commission = round2(subtotal * CardCommissionRate)
	}
	t.Total = round2(t.Subtotal + t.DeliveryFee + t.Commission)
	return t
}

// IsCourier matches the courier delivery method by name.
func IsCourier(dt models.DeliveryType) bool {
	name := strings.ToLower(dt.NameDelivery)
	return strings.Contains(name, "курьер") || strings.Contains(name, "courier")
}

// IsCard matches the card payment method by name.
func IsCard(pt models.PaymentType) bool {
	name := strings.ToLower(pt.NamePayment)
	return strings.Contains(name, "карт") || strings.Contains(name, "card")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
