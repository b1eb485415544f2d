package world

import "testing"

func TestStonePressurePlatePoweredRoundTrip(t *testing.T) {
	unpowered := StonePressurePlate(false)
	powered := StonePressurePlate(true)

	if p, ok := IsStonePressurePlate(unpowered); !ok || p {
		t.Fatalf("IsStonePressurePlate(unpowered) = (%v, %v), want (false, true)", p, ok)
	}
	if p, ok := IsStonePressurePlate(powered); !ok || !p {
		t.Fatalf("IsStonePressurePlate(powered) = (%v, %v), want (true, true)", p, ok)
	}
	if _, ok := IsStonePressurePlate(Lever()); ok {
		t.Fatalf("expected a lever to not be reported as a pressure plate")
	}
}

func TestLeverAndButtonKindChecks(t *testing.T) {
	if !IsLever(Lever()) {
		t.Fatalf("expected Lever() to satisfy IsLever")
	}
	if IsLever(StoneButton()) {
		t.Fatalf("expected a button to not be reported as a lever")
	}
	if !IsStoneButton(StoneButton()) {
		t.Fatalf("expected StoneButton() to satisfy IsStoneButton")
	}
}
