package entitlements

import "strings"

type Plan string

const (
	PlanFree Plan = "free"
	PlanLoja Plan = "loja"
	PlanPro  Plan = "pro"
)

// Unlimited is the ceiling used for plans without a practical monthly cap.
const Unlimited = 999999

var generationLimits = map[Plan]int{
	PlanFree: 5,
	PlanLoja: 50,
	PlanPro:  Unlimited,
}

// NormalizePlan maps stored plan strings onto known plans. Unknown values are free.
func NormalizePlan(plan string) Plan {
	switch p := Plan(strings.ToLower(strings.TrimSpace(plan))); p {
	case PlanLoja, PlanPro:
		return p
	default:
		return PlanFree
	}
}

// GenerationLimit returns the monthly generation ceiling of a plan.
func GenerationLimit(plan Plan) int {
	if limit, ok := generationLimits[NormalizePlan(string(plan))]; ok {
		return limit
	}
	return generationLimits[PlanFree]
}

// IsUnlimited reports whether the plan ceiling is effectively unbounded.
func IsUnlimited(plan Plan) bool {
	return GenerationLimit(plan) >= Unlimited
}
