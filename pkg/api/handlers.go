package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/geom"
	"github.com/matzehuels/smartstep/pkg/route"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// =============================================================================
// Scenes
// =============================================================================

func (s *Server) listScenes(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	var out *scene.Scene
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), false, func(sc *scene.Scene) error {
		out = sc
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) putScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scene")
	sc, err := scene.Read(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if sc.ID == "" {
		sc.ID = id
	}
	if sc.ID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scene id %q does not match URL %q", sc.ID, id))
		return
	}

	defer s.lock(id)()
	if err := s.store.Put(r.Context(), sc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) deleteScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scene")
	defer s.lock(id)()
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) routeScene(w http.ResponseWriter, r *http.Request) {
	var results []route.Result
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), false, func(sc *scene.Scene) error {
		var err error
		results, err = s.router.RouteAll(r.Context(), sc)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// =============================================================================
// Connectors
// =============================================================================

type createConnectorRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

func (s *Server) createConnector(w http.ResponseWriter, r *http.Request) {
	var req createConnectorRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var out scene.Connector
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), true, func(sc *scene.Scene) error {
		c, err := sc.AddConnector(req.Source, req.Target)
		if err != nil {
			return err
		}
		c.Label = req.Label
		out = c.Clone()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) deleteConnector(w http.ResponseWriter, r *http.Request) {
	conn := chi.URLParam(r, "conn")
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), true, func(sc *scene.Scene) error {
		if !sc.RemoveConnector(conn) {
			return errors.New(errors.ErrCodeConnectorNotFound, "connector %q not found", conn)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// routeConnector returns one connector's route. With segment and delta
// query parameters the offset is applied as a live drag and not stored.
func (s *Server) routeConnector(w http.ResponseWriter, r *http.Request) {
	live, err := liveOffset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conn := chi.URLParam(r, "conn")
	var res route.Result
	err = s.withScene(r.Context(), chi.URLParam(r, "scene"), false, func(sc *scene.Scene) error {
		var err error
		if live != nil {
			res, err = s.router.RouteLive(r.Context(), sc, conn, live)
		} else {
			res, err = s.router.Route(r.Context(), sc, conn)
		}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func liveOffset(r *http.Request) (*route.LiveOffset, error) {
	q := r.URL.Query()
	seg, delta := q.Get("segment"), q.Get("delta")
	if seg == "" && delta == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(seg)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "segment must be an integer")
	}
	d, err := strconv.ParseFloat(delta, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "delta must be a number")
	}
	return &route.LiveOffset{Segment: i, Delta: d}, nil
}

// mutateConnector applies fn to the scene, stores it and responds with the
// connector's fresh route.
func (s *Server) mutateConnector(w http.ResponseWriter, r *http.Request, fn func(sc *scene.Scene, conn string) error) {
	conn := chi.URLParam(r, "conn")
	var res route.Result
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), true, func(sc *scene.Scene) error {
		if err := fn(sc, conn); err != nil {
			return err
		}
		var err error
		res, err = s.router.Route(r.Context(), sc, conn)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type offsetRequest struct {
	Segment int     `json:"segment"`
	Delta   float64 `json:"delta"`
}

func (s *Server) addOffset(w http.ResponseWriter, r *http.Request) {
	var req offsetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Segment < 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "segment must be at least 1"))
		return
	}
	s.mutateConnector(w, r, func(sc *scene.Scene, conn string) error {
		return sc.AddSegmentOffset(conn, req.Segment, req.Delta)
	})
}

func (s *Server) clearOffsets(w http.ResponseWriter, r *http.Request) {
	s.mutateConnector(w, r, func(sc *scene.Scene, conn string) error {
		return sc.ClearOffsets(conn)
	})
}

type reconnectRequest struct {
	End   scene.End `json:"end"`
	Shape string    `json:"shape"`
	Side  string    `json:"side"`
}

func (s *Server) reconnect(w http.ResponseWriter, r *http.Request) {
	var req reconnectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.End != scene.Source && req.End != scene.Target {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "end must be %q or %q", scene.Source, scene.Target))
		return
	}
	side, err := geom.ParseSide(req.Side)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidSide, err, "invalid side %q", req.Side))
		return
	}
	s.mutateConnector(w, r, func(sc *scene.Scene, conn string) error {
		return sc.Reconnect(conn, req.End, req.Shape, side)
	})
}

func (s *Server) swap(w http.ResponseWriter, r *http.Request) {
	s.mutateConnector(w, r, func(sc *scene.Scene, conn string) error {
		return sc.Swap(conn)
	})
}

// =============================================================================
// Shapes
// =============================================================================

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) moveShape(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "shape")
	var results []route.Result
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), true, func(sc *scene.Scene) error {
		if !sc.MoveShape(id, req.X, req.Y) {
			return errors.New(errors.ErrCodeShapeNotFound, "shape %q not found", id)
		}
		var err error
		results, err = s.router.RouteAll(r.Context(), sc)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) collapse(w http.ResponseWriter, r *http.Request) {
	s.toggleContainer(w, r, (*scene.Scene).CollapseContainer)
}

func (s *Server) expand(w http.ResponseWriter, r *http.Request) {
	s.toggleContainer(w, r, (*scene.Scene).ExpandContainer)
}

func (s *Server) toggleContainer(w http.ResponseWriter, r *http.Request, fn func(*scene.Scene, string) error) {
	id := chi.URLParam(r, "shape")
	var out *scene.Scene
	err := s.withScene(r.Context(), chi.URLParam(r, "scene"), true, func(sc *scene.Scene) error {
		out = sc
		return fn(sc, id)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
