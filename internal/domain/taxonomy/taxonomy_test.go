package taxonomy

import "testing"

func TestCategory_IsValid(t *testing.T) {
	tests := []struct {
		in   Category
		want bool
	}{
		{Robotics, true},
		{Layout, true},
		{"robotics", false},
		{"Drones", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := tc.in.IsValid(); got != tc.want {
			t.Errorf("Category(%q).IsValid() = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRegionAndVertical_IsValid(t *testing.T) {
	if !NorthAmerica.IsValid() {
		t.Error("North America should be valid")
	}
	if Region("Antarctica").IsValid() {
		t.Error("Antarctica should not be valid")
	}
	if !Datacenter.IsValid() {
		t.Error("Datacenter should be valid")
	}
	if Vertical("Datacenters").IsValid() {
		t.Error("plural vertical should not be valid")
	}
}

func TestEnumerations_ReturnCopies(t *testing.T) {
	c := Categories()
	c[0] = "mutated"
	if Categories()[0] != Robotics {
		t.Error("Categories() must not expose the backing slice")
	}
	if len(Regions()) != 5 {
		t.Errorf("expected 5 regions, got %d", len(Regions()))
	}
	if len(Verticals()) != 6 {
		t.Errorf("expected 6 verticals, got %d", len(Verticals()))
	}
}
