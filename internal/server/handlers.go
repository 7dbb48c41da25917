package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/staffsheet/pkg/buildinfo"
	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type stringBody struct {
	Name    string             `json:"name"`
	Pitches []pitch.Resolution `json:"pitches"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handlePitches(w http.ResponseWriter, r *http.Request) {
	groups := pitch.Strings()
	out := make([]stringBody, len(groups))
	for i, g := range groups {
		out[i] = stringBody{Name: g.Name, Pitches: make([]pitch.Resolution, len(g.Pitches))}
		for j, name := range g.Pitches {
			res, err := pitch.Resolve(name)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			out[i].Pitches[j] = res
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSheet(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := optionsFromQuery(r.URL.Query(), format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.ClefPath = s.opts.ClefPath

		res, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		files := res.Artifacts[format]
		idx := 0
		if format == pipeline.FormatSVG && opts.Page > 0 {
			idx = opts.Page - 1
			if idx >= len(files) {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "page %d out of range 1..%d", idx+1, len(files)))
				return
			}
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Sheet-ID", res.Document.ID)
		w.Header().Set("X-Sheet-Pages", strconv.Itoa(len(res.Document.Pages)))
		if format == pipeline.FormatPDF {
			w.Header().Set("Content-Disposition", `inline; filename="staffsheet.pdf"`)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(files[idx])
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.IsInputError(err) {
		status = http.StatusBadRequest
	} else {
		s.requestLogger(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}

	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Error: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
