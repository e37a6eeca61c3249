package shipping

import "strings"

// StatusEffect is what a vendor shipment status means for an order
type StatusEffect int

const (
	// EffectNone leaves the order status alone
	EffectNone StatusEffect = iota
	// EffectDelivered keeps or moves the order to shipped
	EffectDelivered
	// EffectPickedUp records the pickup date
	EffectPickedUp
	// EffectOutForDelivery is informational
	EffectOutForDelivery
	// EffectReturnToOrigin cancels the order
	EffectReturnToOrigin
)

func (e StatusEffect) String() string {
	switch e {
	case EffectDelivered:
		return "delivered"
	case EffectPickedUp:
		return "picked_up"
	case EffectOutForDelivery:
		return "out_for_delivery"
	case EffectReturnToOrigin:
		return "return_to_origin"
	default:
		return "none"
	}
}

// ClassifyStatus maps a vendor status code or label to its effect.
// Matching ignores case, spaces, dashes and underscores.
func ClassifyStatus(code string) StatusEffect {
	norm := normalizeStatus(code)
	switch {
	case norm == "":
		return EffectNone
	case strings.HasPrefix(norm, "RTO"), strings.HasPrefix(norm, "RETURNTOORIGIN"):
		return EffectReturnToOrigin
	case norm == "DL", norm == "DELIVERED":
		return EffectDelivered
	case norm == "PP", norm == "PICKEDUP":
		return EffectPickedUp
	case norm == "OT", norm == "OUTFORDELIVERY":
		return EffectOutForDelivery
	default:
		return EffectNone
	}
}

func normalizeStatus(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(code)))
}
