package utils

import "testing"

func TestRectIntersects(t *testing.T) {
	tile := Rect{X: 0, Y: 160, W: 120, H: 120}

	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"overlapping corner", Rect{X: 100, Y: 250, W: 64, H: 64}, true},
		{"fully inside", Rect{X: 10, Y: 170, W: 64, H: 64}, true},
		{"touching right edge only", Rect{X: 120, Y: 160, W: 64, H: 64}, false},
		{"touching bottom edge only", Rect{X: 0, Y: 280, W: 64, H: 64}, false},
		{"far away", Rect{X: 300, Y: 500, W: 64, H: 64}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tile.Intersects(tt.r); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.r, got, tt.want)
			}
			if got := tt.r.Intersects(tile); got != tt.want {
				t.Errorf("Intersects is not symmetric for %v", tt.r)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}

	if !r.Contains(10, 10) {
		t.Error("Top-left corner should be contained")
	}
	if r.Contains(30, 15) {
		t.Error("Right edge should be excluded")
	}
	if r.Contains(5, 15) {
		t.Error("Point on the left should not be contained")
	}
}

func TestVec2DominantAxis(t *testing.T) {
	if got := (Vec2{X: -5, Y: 3}).DominantAxis(); got != (Vec2{X: -5}) {
		t.Errorf("Expected (-5,0), got %v", got)
	}
	if got := (Vec2{X: 2, Y: -7}).DominantAxis(); got != (Vec2{Y: -7}) {
		t.Errorf("Expected (0,-7), got %v", got)
	}
	if got := (Vec2{X: 4, Y: 4}).DominantAxis(); got != (Vec2{Y: 4}) {
		t.Errorf("Expected ties to keep Y, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp returned a value outside the range")
	}
}
