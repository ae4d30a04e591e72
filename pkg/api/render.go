package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/smartstep/pkg/cache"
	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/render"
	"github.com/matzehuels/smartstep/pkg/scene"
)

var contentTypes = map[string]string{
	"svg": "image/svg+xml",
	"png": "image/png",
	"dot": "text/vnd.graphviz",
}

// renderScene draws a routed scene. Output is cached per scene content and
// render options.
func (s *Server) renderScene(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	ctype, ok := contentTypes[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format))
		return
	}
	q := r.URL.Query()
	keyOpts := cache.RenderKeyOpts{Format: format, Scale: 1, Grid: q.Get("grid") != ""}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 8 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8]"))
			return
		}
		keyOpts.Scale = f
	}
	opts := []render.Option{render.WithScale(keyOpts.Scale)}
	if keyOpts.Grid {
		opts = append(opts, render.WithGrid())
	}

	ctx := r.Context()
	sceneID := chi.URLParam(r, "scene")
	var out []byte
	err := s.withScene(ctx, sceneID, false, func(sc *scene.Scene) error {
		hash, err := cache.HashJSON(sc)
		if err != nil {
			return err
		}
		key := cache.SceneKeyer(s.keyer, sceneID).RenderKey(hash, keyOpts)
		if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			out = data
			return nil
		}

		results, err := s.router.RouteAll(ctx, sc)
		if err != nil {
			return err
		}
		frame := render.NewFrame(sc, results)
		switch format {
		case "svg":
			out = render.SVG(frame, opts...)
		case "dot":
			out = []byte(render.DOT(frame, opts...))
		case "png":
			var buf bytes.Buffer
			if err := render.PNG(&buf, frame, opts...); err != nil {
				return err
			}
			out = buf.Bytes()
		}
		if err := s.cache.Set(ctx, key, out, cache.TTLRender); err != nil {
			s.logger.Debug("render cache write failed", "key", key, "err", err)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
