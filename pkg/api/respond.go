package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/smartstep/pkg/errors"
)

const maxBody = 4 << 20

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func statusOf(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	code := errors.CodeOf(err)
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotAcceptable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	code := errors.CodeOf(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.Message(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func decode(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode body")
	}
	return nil
}
