package entitlements

import "testing"

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "free", want: PlanFree},
		{in: "loja", want: PlanLoja},
		{in: " PRO ", want: PlanPro},
		{in: "", want: PlanFree},
		{in: "premium", want: PlanFree},
	}

	for _, tt := range tests {
		if got := NormalizePlan(tt.in); got != tt.want {
			t.Fatalf("NormalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerationLimit(t *testing.T) {
	if got := GenerationLimit(PlanFree); got != 5 {
		t.Fatalf("free limit = %d, want 5", got)
	}
	if got := GenerationLimit(PlanLoja); got != 50 {
		t.Fatalf("loja limit = %d, want 50", got)
	}
	if !IsUnlimited(PlanPro) {
		t.Fatalf("expected pro to be unlimited")
	}
	if got := GenerationLimit(Plan("unknown")); got != 5 {
		t.Fatalf("unknown plan limit = %d, want free limit", got)
	}
}
