package signal

import (
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSigmoid(t *testing.T) {
	if !approx(Sigmoid(0), 0.5) {
		t.Errorf("Sigmoid(0) = %v", Sigmoid(0))
	}
	if s := Sigmoid(-1000); s < 0 || math.IsNaN(s) {
		t.Errorf("Sigmoid(-1000) = %v", s)
	}
	if s := Sigmoid(1000); s > 1 || math.IsNaN(s) {
		t.Errorf("Sigmoid(1000) = %v", s)
	}
}

func TestClaimFeatures(t *testing.T) {
	f := ClaimFeatures("According to the report, unemployment was 5 percent and may rise.")

	if f["has_number"] != 1 {
		t.Error("expected has_number")
	}
	if f["has_modal"] != 1 {
		t.Error("expected has_modal")
	}
	if f["attribution"] != 1 {
		t.Error("expected attribution")
	}
	// 11 tokens, two assertion verbs ("report", "was")
	if !approx(f["verb_ratio"], 2.0/11) {
		t.Errorf("verb_ratio = %v", f["verb_ratio"])
	}
	if f["len_norm"] <= 0 || f["len_norm"] > 1 {
		t.Errorf("len_norm = %v", f["len_norm"])
	}
}

func TestClaimFeatures_LongSentenceCapsLength(t *testing.T) {
	f := ClaimFeatures(strings.Repeat("word ", 100))
	if f["len_norm"] != 1 {
		t.Errorf("len_norm = %v, want 1", f["len_norm"])
	}
}

func TestClaimLikeness_Bounds(t *testing.T) {
	scores := ClaimLikeness([]string{
		"",
		"Hello.",
		"According to data shows the study finds he said it was 99% true and will be.",
	})
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for i, s := range scores {
		if s < 0 || s > 1 {
			t.Errorf("score %d out of range: %v", i, s)
		}
	}
	if !approx(scores[0], Sigmoid(-1.0)) {
		t.Errorf("empty sentence should score sigmoid(bias), got %v", scores[0])
	}
	if scores[2] <= scores[1] {
		t.Errorf("assertive sentence %v should outrank greeting %v", scores[2], scores[1])
	}
	if ClaimLikeness(nil) != nil {
		t.Error("no sentences should give nil")
	}
}

func TestClaimLikeness_CapsSentenceCount(t *testing.T) {
	in := make([]string, 150)
	if got := len(ClaimLikeness(in)); got != MaxSentences {
		t.Errorf("scored %d sentences, want %d", got, MaxSentences)
	}
}

func TestSensationalFeatures(t *testing.T) {
	f := SensationalFeatures("SHOCKING scandal!!! Everyone is EXPOSED in 2024 COVID19")

	if f["sens_hits"] != 3 {
		t.Errorf("sens_hits = %v, want 3", f["sens_hits"])
	}
	if f["exclamations"] != 3 {
		t.Errorf("exclamations = %v, want 3", f["exclamations"])
	}
	if f["superlatives"] != 1 {
		t.Errorf("superlatives = %v, want 1", f["superlatives"])
	}
	// SHOCKING and EXPOSED count; COVID19 has a digit
	if !approx(f["cap_ratio"], 2.0/8) {
		t.Errorf("cap_ratio = %v, want 0.25", f["cap_ratio"])
	}
}

func TestSensational_Ordering(t *testing.T) {
	calm := Sensational("The committee published its annual report.")
	loud := Sensational("SHOCKING EXPOSED!!! The worst scandal ever, a total meltdown!")
	if calm >= 0.5 {
		t.Errorf("calm text scored %v", calm)
	}
	if loud <= calm {
		t.Errorf("loud text %v should exceed calm %v", loud, calm)
	}
	if loud < 0 || loud > 1 {
		t.Errorf("loud out of range: %v", loud)
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Error("Mean(nil) should be 0")
	}
	if !approx(Mean([]float64{0.2, 0.4}), 0.3) {
		t.Errorf("Mean = %v", Mean([]float64{0.2, 0.4}))
	}
}
