package tilemap

import (
	"errors"
	"testing"
)

func TestParseRotation(t *testing.T) {
	tests := []struct {
		degrees int
		want    Rotation
		wantErr bool
	}{
		{0, Rotation0, false},
		{90, Rotation90, false},
		{180, Rotation180, false},
		{270, Rotation270, false},
		{360, Rotation0, false},
		{450, Rotation90, false},
		{-90, Rotation270, false},
		{45, Rotation0, true},
		{1, Rotation0, true},
	}

	for _, tc := range tests {
		got, err := ParseRotation(tc.degrees)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRotation) {
				t.Errorf("ParseRotation(%d) error = %v, want ErrInvalidRotation", tc.degrees, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRotation(%d) unexpected error: %v", tc.degrees, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRotation(%d) = %v, want %v", tc.degrees, got, tc.want)
		}
	}
}

func TestRotationNextCycles(t *testing.T) {
	r := Rotation0
	want := []int{90, 180, 270, 0}
	for i, deg := range want {
		r = r.Next()
		if r.Degrees() != deg {
			t.Errorf("step %d: got %d degrees, want %d", i, r.Degrees(), deg)
		}
	}
}

func TestRotationString(t *testing.T) {
	if got := Rotation180.String(); got != "180deg" {
		t.Errorf("Rotation180.String() = %q", got)
	}
	if got := Rotation(7).String(); got != "Rotation(7)" {
		t.Errorf("Rotation(7).String() = %q", got)
	}
}

func TestNewTile(t *testing.T) {
	tile, err := NewTile(2, 3, Rotation90)
	if err != nil {
		t.Fatalf("NewTile failed: %v", err)
	}
	if tile.GraphicX() != 2 || tile.GraphicY() != 3 || tile.Rotation() != Rotation90 {
		t.Errorf("unexpected tile %s", tile)
	}

	if _, err := NewTile(-1, 0, Rotation0); !errors.Is(err, ErrNegativeGraphic) {
		t.Errorf("expected ErrNegativeGraphic, got %v", err)
	}
	if _, err := NewTile(0, 0, Rotation(4)); !errors.Is(err, ErrInvalidRotation) {
		t.Errorf("expected ErrInvalidRotation, got %v", err)
	}
}

func TestTileWithRotationLeavesOriginal(t *testing.T) {
	orig := MustTile(1, 1, Rotation0)
	rotated := orig.WithRotation(Rotation270)

	if orig.Rotation() != Rotation0 {
		t.Errorf("original changed to %s", orig.Rotation())
	}
	if rotated.Rotation() != Rotation270 || rotated.GraphicX() != 1 || rotated.GraphicY() != 1 {
		t.Errorf("unexpected rotated tile %s", rotated)
	}
}

func TestMustTilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustTile with negative coordinate should panic")
		}
	}()
	MustTile(0, -1, Rotation0)
}
