package geom

import "testing"

func TestBoxBlocks(t *testing.T) {
	box := Box{Left: 100, Top: 100, Right: 200, Bottom: 200}

	tests := []struct {
		name string
		p, q Point
		want bool
	}{
		{"horizontal through", Point{0, 150}, Point{300, 150}, true},
		{"horizontal along top edge", Point{0, 100}, Point{300, 100}, false},
		{"horizontal above", Point{0, 50}, Point{300, 50}, false},
		{"horizontal ends at left edge", Point{0, 150}, Point{100, 150}, false},
		{"horizontal reversed", Point{300, 150}, Point{150, 150}, true},
		{"vertical through", Point{150, 0}, Point{150, 300}, true},
		{"vertical along right edge", Point{200, 0}, Point{200, 300}, false},
		{"vertical below", Point{150, 250}, Point{150, 300}, false},
		{"diagonal never blocks", Point{0, 0}, Point{300, 300}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Blocks(tt.p, tt.q); got != tt.want {
				t.Errorf("Blocks(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
			}
		})
	}
}

func TestRectContainsOrigin(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 400, H: 300}

	if !r.ContainsOrigin(Point{0, 0}) {
		t.Error("top-left corner should be inside")
	}
	if r.ContainsOrigin(Point{400, 10}) {
		t.Error("right edge is exclusive")
	}
	if r.ContainsOrigin(Point{-200, 50}) {
		t.Error("point left of the rect should be outside")
	}
}

func TestRectPad(t *testing.T) {
	got := Rect{X: 10, Y: 20, W: 100, H: 50}.Pad(5)
	want := Box{Left: 5, Top: 15, Right: 115, Bottom: 75}
	if got != want {
		t.Errorf("Pad = %+v, want %+v", got, want)
	}
}

func TestSideNormals(t *testing.T) {
	tests := []struct {
		side       Side
		normal     Point
		horizontal bool
		opposite   Side
	}{
		{Top, Point{0, -1}, false, Bottom},
		{Bottom, Point{0, 1}, false, Top},
		{Left, Point{-1, 0}, true, Right},
		{Right, Point{1, 0}, true, Left},
	}

	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			if got := tt.side.Normal(); got != tt.normal {
				t.Errorf("Normal() = %v, want %v", got, tt.normal)
			}
			if got := tt.side.Horizontal(); got != tt.horizontal {
				t.Errorf("Horizontal() = %v, want %v", got, tt.horizontal)
			}
			if got := tt.side.Opposite(); got != tt.opposite {
				t.Errorf("Opposite() = %v, want %v", got, tt.opposite)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []string{"top", "bottom", "left", "right"} {
		if _, err := ParseSide(s); err != nil {
			t.Errorf("ParseSide(%q) error: %v", s, err)
		}
	}
	if _, err := ParseSide("north"); err == nil {
		t.Error("ParseSide(north) should fail")
	}
}

func TestPathOrthogonal(t *testing.T) {
	if !(Path{{0, 0}, {0, 10}, {20, 10}}).Orthogonal() {
		t.Error("axis-aligned path reported as diagonal")
	}
	if (Path{{0, 0}, {10, 10}}).Orthogonal() {
		t.Error("diagonal path reported as orthogonal")
	}
	if !(Path{{0, 0}, {0.4, 10}}).Orthogonal() {
		t.Error("sub-tolerance drift should still count as orthogonal")
	}
}

func TestPathSVG(t *testing.T) {
	got := Path{{0, 0}, {0, 10.5}, {20, 10.5}}.SVG()
	want := "M 0 0 L 0 10.5 L 20 10.5"
	if got != want {
		t.Errorf("SVG() = %q, want %q", got, want)
	}
	if (Path{{1, 1}}).SVG() != "" {
		t.Error("single point path should produce empty description")
	}
}

func TestPathSegments(t *testing.T) {
	p := Path{{0, 0}, {0, 10}, {20, 10}}
	segs := p.Segments()
	if len(segs) != 2 {
		t.Fatalf("len(Segments()) = %d, want 2", len(segs))
	}
	if !segs[0].Vertical() || !segs[1].Horizontal() {
		t.Errorf("unexpected orientations: %+v", segs)
	}
	if segs[1].Midpoint() != (Point{10, 10}) {
		t.Errorf("Midpoint() = %v", segs[1].Midpoint())
	}
}
