package geo

import "testing"

func TestVec2String(t *testing.T) {
	v := Vec2{X: 12.5, Y: -3}
	if got, want := v.String(), "(12.50, -3.00)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestVec2Key(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		same bool
	}{
		{name: "identical", a: Vec2{X: 1, Y: 2}, b: Vec2{X: 1, Y: 2}, same: true},
		{name: "sub-centi noise collapses", a: Vec2{X: 1.001, Y: 2}, b: Vec2{X: 1.004, Y: 2}, same: true},
		{name: "distinct positions differ", a: Vec2{X: 1, Y: 2}, b: Vec2{X: 1.5, Y: 2}, same: false},
		{name: "axes are independent", a: Vec2{X: 1, Y: 2}, b: Vec2{X: 2, Y: 1}, same: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Key() == tc.b.Key(); got != tc.same {
				t.Fatalf("keys %q vs %q, same = %v, want %v", tc.a.Key(), tc.b.Key(), got, tc.same)
			}
		})
	}
}
