package atomcast

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestElementVisuals(t *testing.T) {
	tests := []struct {
		name   string
		number uint8
		color  RGBA
		vdw    float32
	}{
		{"hydrogen", 1, RGB(1, 1, 1), 1.20},
		{"carbon", 6, RGB(0.5, 0.5, 0.5), 1.70},
		{"nitrogen", 7, RGB(0.2, 0.2, 1), 1.55},
		{"oxygen", 8, RGB(1, 0, 0), 1.52},
		{"sulfur", 16, RGB(1, 1, 0), 1.80},
		{"chlorine", 17, RGB(0, 1, 0), 1.75},
		{"sodium", 11, RGB(0, 0, 1), 2.27},
		{"iron", 26, RGB(0.9, 0.4, 0), 2.04},
		{"unknown", 118, RGB(1, 0.7, 0.8), 1.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElementColor(tt.number); got != tt.color {
				t.Errorf("ElementColor(%d) = %v, want %v", tt.number, got, tt.color)
			}
			if got := VDWRadius(tt.number); got != tt.vdw {
				t.Errorf("VDWRadius(%d) = %v, want %v", tt.number, got, tt.vdw)
			}
			want := tt.vdw * 0.3
			if got := BallStickRadius(tt.number); math32.Abs(got-want) > 1e-6 {
				t.Errorf("BallStickRadius(%d) = %v, want %v", tt.number, got, want)
			}
		})
	}
}

func TestElementColor_Opaque(t *testing.T) {
	for _, n := range []uint8{1, 6, 7, 8, 16, 26, 200} {
		if c := ElementColor(n); c.A != 1 {
			t.Errorf("ElementColor(%d) alpha = %v, want 1", n, c.A)
		}
	}
}
