package target

import "testing"

func TestProfileCapabilities(t *testing.T) {
	tests := []struct {
		profile Profile
		has     Capabilities
		lacks   Capabilities
	}{
		{Unrestricted, CapsAll, CapsNone},
		{Base, CapsNone, ForwardBranching},
		{AdaptiveRI, ForwardBranching | IntegerComputations, FloatingPointComputations},
		{AdaptiveRIF, FloatingPointComputations, BackwardsBranching},
	}
	for _, tt := range tests {
		caps := tt.profile.Capabilities()
		if !caps.Has(tt.has) {
			t.Errorf("%s: expected %s in %s", tt.profile, tt.has, caps)
		}
		if tt.lacks != CapsNone && caps.Has(tt.lacks) {
			t.Errorf("%s: did not expect %s", tt.profile, tt.lacks)
		}
	}
}

func TestParseProfileRoundTrip(t *testing.T) {
	for _, p := range []Profile{Unrestricted, Base, AdaptiveRI, AdaptiveRIF} {
		got, err := ParseProfile(p.String())
		if err != nil || got != p {
			t.Fatalf("%s: got %v, %v", p, got, err)
		}
	}
	if _, err := ParseProfile("quantum_supremacy"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseCapability(t *testing.T) {
	if c, ok := ParseCapability("QubitReset"); !ok || c != QubitReset {
		t.Fatalf("got %v %v", c, ok)
	}
	if _, ok := ParseCapability("Teleport"); ok {
		t.Fatal("unexpected capability")
	}
}
