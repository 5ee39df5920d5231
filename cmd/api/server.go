package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/artifact"
	"github.com/darkxdd/FigmaCursor-sub000/internal/generator"
	"github.com/darkxdd/FigmaCursor-sub000/internal/jsonutil"
	"github.com/darkxdd/FigmaCursor-sub000/internal/pipeline"
	"github.com/darkxdd/FigmaCursor-sub000/internal/walker"
)

// apiServer wires HTTP handlers over the generation pipeline.
type apiServer struct {
	pipe  *pipeline.Pipeline
	gen   *generator.Service
	sink  *artifact.Sink
	local *artifact.LocalSink
	runs  *runStore
}

func newAPIServer(pipe *pipeline.Pipeline, gen *generator.Service, sink *artifact.Sink, local *artifact.LocalSink) *apiServer {
	return &apiServer{pipe: pipe, gen: gen, sink: sink, local: local, runs: newRunStore()}
}

func buildMux(s *apiServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/components", s.handleComponents)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/generate/batch", s.handleBatch)
	mux.HandleFunc("/api/usage", s.handleUsage)

	// SSE and websocket endpoints for watching batch runs.
	mux.HandleFunc("/api/watch/", s.handleWatchSSE)
	mux.HandleFunc("/ws/watch/", s.handleWatchWS)
	return mux
}

func (s *apiServer) handleComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	fileKey := strings.TrimSpace(q.Get("file"))
	if fileKey == "" {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	opts := walker.Options{
		IncludeTypes: splitList(q.Get("types")),
		MinSize:      floatParam(q.Get("minSize")),
		MaxSize:      floatParam(q.Get("maxSize")),
		MaxDepth:     intParam(q.Get("maxDepth")),
	}
	if len(opts.IncludeTypes) == 0 {
		opts.IncludeTypes = []string{"COMPONENT", "INSTANCE", "FRAME"}
	}
	page, err := s.pipe.Components(r.Context(), fileKey, opts, intParam(q.Get("page")), intParam(q.Get("pageSize")))
	if err != nil {
		writeError(w, err)
		return
	}

	out := map[string]any{
		"items":   page.Items,
		"total":   page.Total,
		"hasMore": page.HasMore,
	}
	if boolParam(q.Get("previews")) && len(page.Items) > 0 {
		ids := make([]string, 0, len(page.Items))
		for i := range page.Items {
			ids = append(ids, page.Items[i].ID)
		}
		if urls, err := s.pipe.Previews(r.Context(), fileKey, ids); err == nil {
			out["previews"] = urls
		} else {
			log.Printf("preview fetch failed: %v", err)
		}
	}
	writeJSON(w, out)
}

type generateRequest struct {
	FileKey  string `json:"fileKey"`
	NodeID   string `json:"nodeId"`
	Session  string `json:"session,omitempty"`
	Publish  bool   `json:"publish,omitempty"`
	MaxDepth int    `json:"maxDepth,omitempty"`
	Budget   int    `json:"budget,omitempty"`
}

func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in generateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if in.FileKey == "" || in.NodeID == "" {
		http.Error(w, "fileKey and nodeId are required", http.StatusBadRequest)
		return
	}
	opts := pipeline.Options{MetadataBudget: in.Budget}
	opts.Simplify.MaxDepth = in.MaxDepth

	res, err := s.pipe.Generate(r.Context(), in.FileKey, in.NodeID, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	out := map[string]any{
		"nodeId":   res.NodeID,
		"name":     res.Name,
		"code":     res.Code,
		"strategy": res.Strategy,
	}
	session := in.Session
	if session == "" {
		session = in.FileKey
	}
	if in.Publish && s.sink != nil {
		if rec, err := s.sink.Put(r.Context(), session, res.Name, res.Code); err == nil {
			out["receipt"] = rec
		} else {
			log.Printf("artifact upload failed: %v", err)
		}
	}
	if s.local != nil {
		if rec, err := s.local.Put(session, res.Name, res.Code); err == nil {
			out["file"] = rec.URL
		} else {
			log.Printf("local export failed: %v", err)
		}
	}
	writeJSON(w, out)
}

type batchRequest struct {
	FileKey string         `json:"fileKey"`
	Options walker.Options `json:"options,omitempty"`
}

func (s *apiServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in batchRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if in.FileKey == "" {
		http.Error(w, "fileKey is required", http.StatusBadRequest)
		return
	}

	runID, events := s.runs.create()
	go func() {
		defer s.runs.close(runID)
		// Each run gets its own cancellation scope, detached from the
		// request that started it.
		ctx, cancel := s.runs.scope(runID)
		defer cancel()
		_, err := s.pipe.GenerateBatch(ctx, in.FileKey, pipeline.Options{Walker: in.Options}, func(e pipeline.Event) {
			// Drop events once the buffer fills so an unwatched run
			// never blocks generation.
			select {
			case events <- e:
			default:
			}
		})
		if err != nil {
			log.Printf("batch %s: %v", runID, err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"runId": runID})
}

func (s *apiServer) handleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.gen.Usage())
}

// writeJSON keeps JSX angle brackets literal in the code payloads.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = jsonutil.Encode(w, v)
}

// writeError maps the error taxonomy onto HTTP statuses and always
// includes the machine-readable kind and remediation hint.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindAuth:
			status = http.StatusUnauthorized
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindRateLimit:
			status = http.StatusTooManyRequests
		case apperr.KindSafetyBlock, apperr.KindInvalidCode, apperr.KindTokenBudget:
			status = http.StatusUnprocessableEntity
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonutil.Encode(w, map[string]string{
		"error": err.Error(),
		"kind":  string(apperr.KindOf(err)),
		"hint":  apperr.Hint(err),
	})
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}

func boolParam(raw string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(raw))
	return v
}

func floatParam(raw string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return f
}
