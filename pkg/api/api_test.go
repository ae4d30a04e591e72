package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/observability"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
	"github.com/matzehuels/smartstep/pkg/storage"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := scene.New("demo")
	for _, sh := range []scene.Shape{
		{ID: "api", X: 0, Y: 0, Width: 200, Height: 100},
		{ID: "db", X: 0, Y: 300, Width: 200, Height: 100},
		{ID: "cache", X: 400, Y: 300, Width: 200, Height: 100},
	} {
		if err := s.AddShape(sh); err != nil {
			t.Fatal(err)
		}
	}
	s.Connectors = append(s.Connectors, scene.Connector{ID: "e-1", Source: "api", Target: "db"})
	if err := store.Put(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	srv := httptest.NewServer(NewServer(store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeInto[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body := decodeInto[map[string]any](t, data)
	if body["status"] != "ok" || body["build"] == nil {
		t.Errorf("body = %v", body)
	}
}

func TestSceneCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/api/scenes"

	resp, data := do(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	infos := decodeInto[[]storage.Info](t, data)
	if len(infos) != 1 || infos[0].ID != "demo" || infos[0].Connectors != 1 {
		t.Fatalf("list = %+v", infos)
	}

	resp, data = do(t, http.MethodGet, base+"/demo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if got := decodeInto[scene.Scene](t, data); len(got.Shapes) != 3 {
		t.Errorf("shapes = %d, want 3", len(got.Shapes))
	}

	fresh := scene.New("")
	fresh.Name = "Fresh"
	resp, _ = do(t, http.MethodPut, base+"/fresh", fresh)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	resp, data = do(t, http.MethodGet, base+"/fresh", nil)
	if got := decodeInto[scene.Scene](t, data); resp.StatusCode != http.StatusOK || got.Name != "Fresh" {
		t.Errorf("get fresh = %d %+v", resp.StatusCode, got)
	}

	resp, _ = do(t, http.MethodPut, base+"/other", scene.New("mismatch"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("mismatched id status = %d, want 400", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, base+"/fresh", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, data = do(t, http.MethodGet, base+"/fresh", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted status = %d", resp.StatusCode)
	}
	if eb := decodeInto[errorBody](t, data); eb.Code != errors.ErrCodeSceneNotFound {
		t.Errorf("error code = %s", eb.Code)
	}
}

func TestPutInvalidScene(t *testing.T) {
	srv, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/scenes/bad", strings.NewReader("{not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, http.MethodGet, srv.URL+"/api/scenes/demo/routes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	results := decodeInto[[]route.Result](t, data)
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if got := results[0].SVG; got != "M 100 100 L 100 130 L 100 270 L 100 300" {
		t.Errorf("svg = %q", got)
	}
}

func TestRouteLivePreviewIsNotStored(t *testing.T) {
	srv, store := newTestServer(t)
	url := srv.URL + "/api/scenes/demo/connectors/e-1/route"

	resp, data := do(t, http.MethodGet, url+"?segment=1&delta=25", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	live := decodeInto[route.Result](t, data)
	shifted := false
	for _, p := range live.Waypoints {
		shifted = shifted || p.X == 125
	}
	if !shifted {
		t.Errorf("live waypoints = %v, want a point at x=125", live.Waypoints)
	}

	sc, _ := store.Get(context.Background(), "demo")
	if c, _ := sc.Connector("e-1"); len(c.Offsets) != 0 {
		t.Errorf("live offset was stored: %v", c.Offsets)
	}

	resp, _ = do(t, http.MethodGet, url+"?segment=x&delta=1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad segment status = %d", resp.StatusCode)
	}
}

func TestOffsetsPersistAndAccumulate(t *testing.T) {
	srv, store := newTestServer(t)
	url := srv.URL + "/api/scenes/demo/connectors/e-1/offsets"

	for _, d := range []float64{10, 15} {
		resp, data := do(t, http.MethodPost, url, offsetRequest{Segment: 1, Delta: d})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, data)
		}
	}
	sc, _ := store.Get(context.Background(), "demo")
	c, _ := sc.Connector("e-1")
	if c.Offsets[1] != 25 {
		t.Errorf("offset = %v, want 25", c.Offsets[1])
	}

	resp, _ := do(t, http.MethodPost, url, offsetRequest{Segment: 0, Delta: 5})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("segment 0 status = %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("clear status = %d", resp.StatusCode)
	}
	sc, _ = store.Get(context.Background(), "demo")
	if c, _ := sc.Connector("e-1"); len(c.Offsets) != 0 {
		t.Errorf("offsets after clear = %v", c.Offsets)
	}
}

func TestReconnectAndSwap(t *testing.T) {
	srv, store := newTestServer(t)
	base := srv.URL + "/api/scenes/demo/connectors/e-1"

	resp, data := do(t, http.MethodPost, base+"/reconnect", reconnectRequest{End: scene.Target, Shape: "cache", Side: "left"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reconnect status = %d: %s", resp.StatusCode, data)
	}
	res := decodeInto[route.Result](t, data)
	if res.Target.Side != geom.Left || !res.Target.Manual {
		t.Errorf("target handle = %+v, want manual left", res.Target)
	}

	resp, _ = do(t, http.MethodPost, base+"/swap", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("swap status = %d", resp.StatusCode)
	}
	sc, _ := store.Get(context.Background(), "demo")
	c, _ := sc.Connector("e-1")
	if c.Source != "cache" || c.Target != "api" || !c.ManualSource || c.ManualTarget {
		t.Errorf("after swap: %+v", c)
	}

	tests := []struct {
		name string
		req  reconnectRequest
		want int
	}{
		{"bad side", reconnectRequest{End: scene.Source, Shape: "db", Side: "north"}, http.StatusBadRequest},
		{"bad end", reconnectRequest{End: "middle", Shape: "db", Side: "top"}, http.StatusBadRequest},
		{"missing shape", reconnectRequest{End: scene.Source, Shape: "ghost", Side: "top"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, http.MethodPost, base+"/reconnect", tt.req)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestConnectorLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	base := srv.URL + "/api/scenes/demo/connectors"

	resp, data := do(t, http.MethodPost, base, createConnectorRequest{Source: "db", Target: "cache", Label: "warms"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, data)
	}
	c := decodeInto[scene.Connector](t, data)
	if !strings.HasPrefix(c.ID, scene.ConnectorPrefix) || c.Label != "warms" {
		t.Errorf("created %+v", c)
	}

	resp, _ = do(t, http.MethodPost, base, createConnectorRequest{Source: "db", Target: "nowhere"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("dangling create status = %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, base+"/"+c.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodDelete, base+"/"+c.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d", resp.StatusCode)
	}
	sc, _ := store.Get(context.Background(), "demo")
	if len(sc.Connectors) != 1 {
		t.Errorf("connectors = %d, want 1", len(sc.Connectors))
	}
}

func TestMoveAndCollapse(t *testing.T) {
	srv, store := newTestServer(t)
	base := srv.URL + "/api/scenes/demo"

	resp, data := do(t, http.MethodPost, base+"/shapes/db/move", moveRequest{X: 600, Y: 0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move status = %d: %s", resp.StatusCode, data)
	}
	results := decodeInto[[]route.Result](t, data)
	if len(results) != 1 || results[0].Source.Side != geom.Right || results[0].Target.Side != geom.Left {
		t.Errorf("after move: %+v", results)
	}

	resp, _ = do(t, http.MethodPost, base+"/shapes/ghost/move", moveRequest{})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("move ghost status = %d", resp.StatusCode)
	}

	sc, _ := store.Get(context.Background(), "demo")
	_ = sc.AddShape(scene.NewContainer("zone", 550, -50, 400, 300))
	if err := store.Put(context.Background(), sc); err != nil {
		t.Fatal(err)
	}
	resp, _ = do(t, http.MethodPost, base+"/containers/zone/collapse", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("collapse status = %d", resp.StatusCode)
	}
	sc, _ = store.Get(context.Background(), "demo")
	if db, _ := sc.Shape("db"); !db.IsHidden() {
		t.Error("db not hidden after collapse")
	}
	resp, _ = do(t, http.MethodPost, base+"/containers/zone/expand", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expand status = %d", resp.StatusCode)
	}
	sc, _ = store.Get(context.Background(), "demo")
	if db, _ := sc.Shape("db"); db.IsHidden() || db.X != 600 || db.Y != 0 {
		t.Errorf("db after expand = %+v", db)
	}
}

func TestRenderCachesOutput(t *testing.T) {
	mc := &memCache{data: make(map[string][]byte)}
	srv, _ := newTestServer(t, WithCache(mc))
	url := srv.URL + "/api/scenes/demo/render.svg?grid=1"

	resp, first := do(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(first, []byte("<svg")) || !bytes.Contains(first, []byte(`id="grid"`)) {
		t.Errorf("unexpected body %.80s", first)
	}
	sets := mc.sets

	_, second := do(t, http.MethodGet, url, nil)
	if !bytes.Equal(first, second) {
		t.Error("cached render differs")
	}
	if mc.sets != sets {
		t.Errorf("second render wrote to cache (%d -> %d sets)", sets, mc.sets)
	}
}

func TestRenderFormats(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		path   string
		status int
		prefix string
	}{
		{"/render.png?scale=2", http.StatusOK, "\x89PNG"},
		{"/render.dot", http.StatusOK, "digraph G {"},
		{"/render.gif", http.StatusNotAcceptable, ""},
		{"/render.svg?scale=-1", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, data := do(t, http.MethodGet, srv.URL+"/api/scenes/demo"+tt.path, nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("body starts %q, want %q", data[:min(len(data), 12)], tt.prefix)
			}
		})
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &recordingHTTPHooks{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/healthz", nil)
	do(t, http.MethodGet, srv.URL+"/api/scenes/missing", nil)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 2 || rec.statuses[0] != 200 || rec.statuses[1] != 404 {
		t.Errorf("statuses = %v", rec.statuses)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeShapeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInvalidSide, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotAcceptable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
