package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salmonumbrella/xmlcsv/internal/convert"
)

// Server exposes the converter over HTTP.
type Server struct {
	router    chi.Router
	converter *convert.Converter
	log       *slog.Logger
	maxBody   int64
}

// New creates and configures the HTTP server. maxBody caps request bodies
// in bytes; values <= 0 disable the cap.
func New(converter *convert.Converter, log *slog.Logger, maxBody int64) *Server {
	s := &Server{
		converter: converter,
		log:       log,
		maxBody:   maxBody,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.handleConvert(w, r, s.converter.ExportText, "text/csv; charset=utf-8")
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.handleConvert(w, r, s.converter.ImportText, "application/xml; charset=utf-8")
}

type convertFunc func(content string, opts convert.Options) (*convert.Report, error)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request, run convertFunc, contentType string) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", "too_large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "reading request body: "+err.Error(), "io_read", http.StatusBadRequest)
		return
	}

	opts := convert.Options{
		Strict:  queryBool(r, "strict"),
		PadRows: queryBool(r, "pad"),
	}

	report, err := run(string(body), opts)
	if err != nil {
		kind := convert.ErrorType(err)
		s.log.Warn("conversion failed",
			"request_id", middleware.GetReqID(r.Context()),
			"type", kind,
			"error", err,
		)
		jsonError(w, err.Error(), kind, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Conversion-ID", report.ID)
	w.Header().Set("X-Rows", strconv.Itoa(report.Rows))
	w.Header().Set("X-Columns", strconv.Itoa(report.Columns))
	io.WriteString(w, report.Content)
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func jsonError(w http.ResponseWriter, msg, kind string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"message": msg,
			"type":    kind,
		},
	})
}
