package scene

import (
	"strings"
	"testing"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
)

func twoBoxes() *Scene {
	s := New("s1")
	_ = s.AddShape(NewShape("a", 0, 0, 100, 60))
	_ = s.AddShape(NewShape("b", 0, 200, 100, 60))
	s.Connectors = append(s.Connectors, Connector{ID: "e1", Source: "a", Target: "b"})
	return s
}

func TestShapeSize(t *testing.T) {
	tests := []struct {
		name         string
		shape        Shape
		wantW, wantH float64
	}{
		{"measured", Shape{Width: 10, Height: 20, StyleWidth: 30, StyleHeight: 40}, 10, 20},
		{"style", Shape{StyleWidth: 30, StyleHeight: 40}, 30, 40},
		{"default", Shape{}, DefaultWidth, DefaultHeight},
		{"container default", Shape{Kind: KindContainer}, DefaultContainerWidth, DefaultContainerHeight},
		{"mixed", Shape{Width: 10, StyleHeight: 40}, 10, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.shape.Size()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %v,%v, want %v,%v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGeometryHandles(t *testing.T) {
	g := Geometry{Rect: geom.Rect{X: 0, Y: 0, W: 100, H: 122}, Inset: 22}
	tests := []struct {
		side geom.Side
		want geom.Point
	}{
		{geom.Top, geom.Point{X: 50, Y: 22}},
		{geom.Bottom, geom.Point{X: 50, Y: 122}},
		{geom.Left, geom.Point{X: 0, Y: 72}},
		{geom.Right, geom.Point{X: 100, Y: 72}},
	}
	for _, tt := range tests {
		if got := g.Handle(tt.side); got != tt.want {
			t.Errorf("Handle(%s) = %v, want %v", tt.side, got, tt.want)
		}
	}
	if c := g.Center(); c != (geom.Point{X: 50, Y: 72}) {
		t.Errorf("Center() = %v", c)
	}
}

func TestGeometryHidden(t *testing.T) {
	s := New("s")
	_ = s.AddShape(NewContainer("z", 100, 100, 400, 300))
	inner := NewShape("a", 150, 200, 100, 60)
	inner.HiddenIn = "z"
	_ = s.AddShape(inner)

	g, ok := s.Geometry("a")
	if !ok {
		t.Fatal("Geometry(a) not found")
	}
	want := geom.Rect{X: 100, Y: 100, W: 400, H: DefaultHeaderHeight}
	if g.Rect != want || g.Inset != 0 {
		t.Errorf("Geometry(a) = %+v, want header %+v", g, want)
	}
	if _, ok := s.Geometry("missing"); ok {
		t.Error("Geometry(missing) should not be found")
	}
}

func TestCollapseExpand(t *testing.T) {
	s := New("s")
	_ = s.AddShape(NewContainer("z", 0, 0, 400, 300))
	_ = s.AddShape(NewShape("in", 50, 80, 100, 60))
	_ = s.AddShape(NewShape("out", 600, 80, 100, 60))

	if err := s.CollapseContainer("z"); err != nil {
		t.Fatalf("CollapseContainer: %v", err)
	}
	in, _ := s.Shape("in")
	out, _ := s.Shape("out")
	z, _ := s.Shape("z")
	if !in.IsHidden() || out.IsHidden() {
		t.Fatalf("hidden: in=%v out=%v", in.IsHidden(), out.IsHidden())
	}
	if _, h := z.Size(); h != DefaultHeaderHeight {
		t.Errorf("collapsed height = %v", h)
	}

	if err := s.ExpandContainer("z"); err != nil {
		t.Fatalf("ExpandContainer: %v", err)
	}
	if in.IsHidden() || in.X != 50 || in.Y != 80 {
		t.Errorf("in after expand = %+v", in)
	}
	if _, h := z.Size(); h != 300 {
		t.Errorf("expanded height = %v", h)
	}
	if err := s.CollapseContainer("in"); !errors.Is(err, errors.ErrCodeShapeNotFound) {
		t.Errorf("collapse non-container: %v", err)
	}
}

func TestAddSegmentOffsetAccumulates(t *testing.T) {
	s := twoBoxes()
	for _, d := range []float64{10, 5, -3} {
		if err := s.AddSegmentOffset("e1", 2, d); err != nil {
			t.Fatal(err)
		}
	}
	c, _ := s.Connector("e1")
	if c.Offsets[2] != 12 {
		t.Errorf("offset = %v, want 12", c.Offsets[2])
	}
	if err := s.AddSegmentOffset("nope", 1, 1); !errors.Is(err, errors.ErrCodeConnectorNotFound) {
		t.Errorf("missing connector: %v", err)
	}
}

func TestReconnect(t *testing.T) {
	s := twoBoxes()
	_ = s.AddShape(NewShape("c", 300, 0, 100, 60))
	_ = s.AddSegmentOffset("e1", 1, 20)

	if err := s.Reconnect("e1", Target, "c", geom.Left); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Connector("e1")
	if c.Target != "c" || c.TargetSide != geom.Left || !c.ManualTarget || c.ManualSource {
		t.Errorf("after reconnect = %+v", c)
	}
	if len(c.Offsets) != 0 {
		t.Errorf("offsets not cleared: %v", c.Offsets)
	}

	if err := s.Reconnect("e1", Source, "c", "middle"); !errors.Is(err, errors.ErrCodeInvalidSide) {
		t.Errorf("bad side: %v", err)
	}
	if err := s.Reconnect("e1", Source, "zzz", geom.Top); !errors.Is(err, errors.ErrCodeShapeNotFound) {
		t.Errorf("bad shape: %v", err)
	}
}

func TestSwap(t *testing.T) {
	s := twoBoxes()
	_ = s.Reconnect("e1", Source, "a", geom.Right)
	_ = s.AddSegmentOffset("e1", 1, 5)

	if err := s.Swap("e1"); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Connector("e1")
	if c.Source != "b" || c.Target != "a" {
		t.Errorf("ends = %s -> %s", c.Source, c.Target)
	}
	if c.TargetSide != geom.Right || !c.ManualTarget || c.ManualSource {
		t.Errorf("sides/flags not swapped: %+v", c)
	}
	if c.Offsets != nil {
		t.Errorf("offsets = %v, want cleared", c.Offsets)
	}
}

func TestAddConnector(t *testing.T) {
	s := twoBoxes()
	c, err := s.AddConnector("a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(c.ID, ConnectorPrefix) {
		t.Errorf("id = %q", c.ID)
	}
	if c.SourceSide != geom.Bottom || c.TargetSide != geom.Top {
		t.Errorf("default sides = %s, %s", c.SourceSide, c.TargetSide)
	}
	if _, err := s.AddConnector("a", "ghost"); !errors.Is(err, errors.ErrCodeShapeNotFound) {
		t.Errorf("ghost target: %v", err)
	}
	if !s.RemoveConnector(c.ID) || s.RemoveConnector(c.ID) {
		t.Error("RemoveConnector should succeed exactly once")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		code   errors.Code
	}{
		{"ok", func(*Scene) {}, ""},
		{"dup shape", func(s *Scene) { s.Shapes = append(s.Shapes, s.Shapes[0]) }, errors.ErrCodeInvalidScene},
		{"dangling", func(s *Scene) { s.Connectors[0].Target = "x" }, ""},
		{"bad side", func(s *Scene) { s.Connectors[0].SourceSide = "up" }, errors.ErrCodeInvalidSide},
		{"bad kind", func(s *Scene) { s.Shapes[0].Kind = "blob" }, errors.ErrCodeInvalidScene},
		{"bad id", func(s *Scene) { s.Connectors[0].ID = "" }, errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := twoBoxes()
			tt.mutate(s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDangling(t *testing.T) {
	s := twoBoxes()
	if got := s.Dangling(); len(got) != 0 {
		t.Errorf("Dangling() = %v, want none", got)
	}
	s.Shapes = s.Shapes[:1]
	if got := s.Dangling(); len(got) != 1 || got[0] != "e1" {
		t.Errorf("Dangling() = %v, want [e1]", got)
	}
}

func TestClone(t *testing.T) {
	s := twoBoxes()
	_ = s.AddSegmentOffset("e1", 1, 4)
	c := s.Clone()
	_ = c.AddSegmentOffset("e1", 1, 4)
	c.MoveShape("a", 999, 999)

	orig, _ := s.Connector("e1")
	if orig.Offsets[1] != 4 {
		t.Errorf("clone shares offsets: %v", orig.Offsets)
	}
	a, _ := s.Shape("a")
	if a.X != 0 {
		t.Error("clone shares shapes")
	}
}
