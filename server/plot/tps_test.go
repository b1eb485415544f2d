package plot

import "testing"

func TestTpsString(t *testing.T) {
	cases := []struct {
		tps  Tps
		want string
	}{
		{Tps{Mode: TpsPaused}, "paused"},
		{Tps{Mode: TpsUnlimited}, "unlimited"},
		{Tps{Mode: TpsLimited, Limited: 20}, "limited"},
	}
	for _, c := range cases {
		if got := c.tps.String(); got != c.want {
			t.Fatalf("Tps{%v}.String() = %q, want %q", c.tps, got, c.want)
		}
	}
}
