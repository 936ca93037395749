package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Keyword, Assisted}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "hybrid", "semantic", "KEYWORD"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestConstants(t *testing.T) {
	if Keyword != "keyword" {
		t.Errorf("Keyword = %q", Keyword)
	}
	if Assisted != "assisted" {
		t.Errorf("Assisted = %q", Assisted)
	}
}
