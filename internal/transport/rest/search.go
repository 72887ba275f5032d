package rest

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/metrics"
	"github.com/heartmarshall/wordgraph/internal/search"
	"github.com/heartmarshall/wordgraph/pkg/ctxutil"
)

const (
	defaultRadius = 2
	maxRadius     = 4
	maxTopN       = 100
	maxPathLimit  = 20
)

// searcher defines the query surface SearchHandler needs.
type searcher interface {
	Graph() *graph.Graph
	Options() search.Options
	Resolve(word string) []graph.Key
	ShortestPath(a, b graph.Key) ([]graph.Key, error)
	Similarity(a, b graph.Key) (float64, error)
	Layers(a graph.Key, radius int) ([][]graph.Key, error)
	NeighborhoodGraph(keys []graph.Key, radius int) (*graph.Graph, error)
	SimilarWords(a graph.Key, topN int) ([]search.Scored, error)
	ConnectingPaths(a, b graph.Key, limit int) ([][]graph.Key, error)
}

// SearchHandler serves read-only queries over a frozen graph.
type SearchHandler struct {
	engine  searcher
	summary graph.Summary
	topN    int
	log     *slog.Logger
}

// NewSearchHandler creates a SearchHandler. The graph summary is computed
// once, since the graph never changes while it is served.
func NewSearchHandler(engine searcher, topN int, logger *slog.Logger) *SearchHandler {
	if topN <= 0 {
		topN = 10
	}
	return &SearchHandler{
		engine:  engine,
		summary: graph.Analyze(engine.Graph(), topN),
		topN:    topN,
		log:     logger.With("handler", "search"),
	}
}

type degreeResponse struct {
	Key    string `json:"key"`
	Degree int    `json:"degree"`
}

type graphResponse struct {
	Nodes            int              `json:"nodes"`
	Edges            int              `json:"edges"`
	Density          float64          `json:"density"`
	AverageDegree    float64          `json:"average_degree"`
	Components       int              `json:"components"`
	LargestComponent int              `json:"largest_component"`
	Clustering       float64          `json:"clustering"`
	TopDegrees       []degreeResponse `json:"top_degrees"`
}

type senseResponse struct {
	Key          string   `json:"key"`
	Depth        int      `json:"depth"`
	Definitions  []string `json:"definitions"`
	Neighbors    []string `json:"neighbors"`
	Predecessors []string `json:"predecessors"`
}

type wordResponse struct {
	Word   string          `json:"word"`
	Senses []senseResponse `json:"senses"`
}

type pathResponse struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

type pathsResponse struct {
	From  string     `json:"from"`
	To    string     `json:"to"`
	Paths [][]string `json:"paths"`
}

type similarityResponse struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
	// Best is the sense pair that produced Score.
	Best [2]string `json:"best"`
}

type scoredResponse struct {
	Key      string  `json:"key"`
	Distance int     `json:"distance"`
	Score    float64 `json:"score"`
}

type similarResponse struct {
	Word    string           `json:"word"`
	Results []scoredResponse `json:"results"`
}

type layerResponse struct {
	Key    string     `json:"key"`
	Layers [][]string `json:"layers"`
}

type neighborhoodResponse struct {
	Word   string          `json:"word"`
	Radius int             `json:"radius"`
	Senses []layerResponse `json:"senses"`
}

// Graph handles GET /api/v1/graph.
func (h *SearchHandler) Graph(w http.ResponseWriter, r *http.Request) {
	s := h.summary
	resp := graphResponse{
		Nodes:            s.Nodes,
		Edges:            s.Edges,
		Density:          s.Density,
		AverageDegree:    s.AverageDegree,
		Components:       s.Components,
		LargestComponent: s.LargestComponent,
		Clustering:       s.Clustering,
		TopDegrees:       make([]degreeResponse, 0, len(s.TopDegrees)),
	}
	for _, d := range s.TopDegrees {
		resp.TopDegrees = append(resp.TopDegrees, degreeResponse{Key: d.Key.String(), Degree: d.Degree})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Word handles GET /api/v1/words/{word}. The optional pos query parameter
// narrows the result to one sense.
func (h *SearchHandler) Word(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if pos := r.URL.Query().Get("pos"); pos != "" {
		word += "/" + pos
	}
	keys, err := h.resolve("word", word)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	g := h.engine.Graph()
	resp := wordResponse{Word: word, Senses: make([]senseResponse, 0, len(keys))}
	for _, k := range keys {
		n, _ := g.Node(k)
		resp.Senses = append(resp.Senses, senseResponse{
			Key:          k.String(),
			Depth:        n.Depth,
			Definitions:  n.Definitions,
			Neighbors:    keyStrings(g.Neighbors(k)),
			Predecessors: keyStrings(g.Predecessors(k)),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Path handles GET /api/v1/path?from=&to=. With several senses on either
// side, the shortest path over all sense pairs wins.
func (h *SearchHandler) Path(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := h.resolvePair(q.Get("from"), q.Get("to"), "from", "to")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var best []graph.Key
	for _, a := range from {
		for _, b := range to {
			p, err := h.engine.ShortestPath(a, b)
			if errors.Is(err, domain.ErrNoPath) {
				continue
			}
			if err != nil {
				h.handleError(w, r, err)
				return
			}
			if best == nil || len(p) < len(best) {
				best = p
			}
		}
	}
	if best == nil {
		h.handleError(w, r, fmt.Errorf("%s -> %s: %w", q.Get("from"), q.Get("to"), domain.ErrNoPath))
		return
	}

	writeJSON(w, http.StatusOK, pathResponse{
		From:   q.Get("from"),
		To:     q.Get("to"),
		Path:   keyStrings(best),
		Length: len(best) - 1,
	})
}

// Paths handles GET /api/v1/paths?from=&to=&limit=.
func (h *SearchHandler) Paths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(r, "limit", h.engine.Options().MaxPaths, 1, maxPathLimit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	from, to, err := h.resolvePair(q.Get("from"), q.Get("to"), "from", "to")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := pathsResponse{From: q.Get("from"), To: q.Get("to"), Paths: [][]string{}}
	for _, a := range from {
		for _, b := range to {
			if len(resp.Paths) >= limit {
				break
			}
			ps, err := h.engine.ConnectingPaths(a, b, limit-len(resp.Paths))
			if errors.Is(err, domain.ErrNoPath) {
				continue
			}
			if err != nil {
				h.handleError(w, r, err)
				return
			}
			for _, p := range ps {
				resp.Paths = append(resp.Paths, keyStrings(p))
			}
		}
	}
	if len(resp.Paths) == 0 {
		h.handleError(w, r, fmt.Errorf("%s -> %s: %w", resp.From, resp.To, domain.ErrNoPath))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Similarity handles GET /api/v1/similarity?a=&b=. The score is the best
// over all sense pairs.
func (h *SearchHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	as, bs, err := h.resolvePair(q.Get("a"), q.Get("b"), "a", "b")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := similarityResponse{A: q.Get("a"), B: q.Get("b"), Score: -1}
	for _, a := range as {
		for _, b := range bs {
			s, err := h.engine.Similarity(a, b)
			if err != nil {
				h.handleError(w, r, err)
				return
			}
			if s > resp.Score {
				resp.Score = s
				resp.Best = [2]string{a.String(), b.String()}
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Similar handles GET /api/v1/similar?word=&top=.
func (h *SearchHandler) Similar(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	top, err := intParam(r, "top", h.topN, 1, maxTopN)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	keys, err := h.resolve("word", word)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var all []search.Scored
	for _, k := range keys {
		s, err := h.engine.SimilarWords(k, top)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		all = append(all, s...)
	}
	// Senses of one word may reach the same node; keep its best score.
	slices.SortStableFunc(all, func(a, b search.Scored) int { return cmp.Compare(b.Score, a.Score) })
	seen := make(map[graph.Key]bool, len(all))
	resp := similarResponse{Word: word, Results: []scoredResponse{}}
	for _, s := range all {
		if seen[s.Key] || slices.Contains(keys, s.Key) || len(resp.Results) >= top {
			continue
		}
		seen[s.Key] = true
		resp.Results = append(resp.Results, scoredResponse{Key: s.Key.String(), Distance: s.Distance, Score: s.Score})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Neighborhood handles GET /api/v1/neighborhood?word=&radius=.
func (h *SearchHandler) Neighborhood(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	radius, keys, err := h.neighborhoodParams(r, word)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := neighborhoodResponse{Word: word, Radius: radius, Senses: make([]layerResponse, 0, len(keys))}
	for _, k := range keys {
		layers, err := h.engine.Layers(k, radius)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		lr := layerResponse{Key: k.String(), Layers: make([][]string, 0, len(layers))}
		for _, l := range layers {
			lr.Layers = append(lr.Layers, keyStrings(l))
		}
		resp.Senses = append(resp.Senses, lr)
	}
	writeJSON(w, http.StatusOK, resp)
}

// NeighborhoodDOT handles GET /api/v1/neighborhood.dot?word=&radius=: the
// induced subgraph around every sense of word, in Graphviz DOT.
func (h *SearchHandler) NeighborhoodDOT(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	radius, keys, err := h.neighborhoodParams(r, word)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sub, err := h.engine.NeighborhoodGraph(keys, radius)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := graph.WriteDOT(&buf, sub, word); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (h *SearchHandler) neighborhoodParams(r *http.Request, word string) (int, []graph.Key, error) {
	radius, err := intParam(r, "radius", defaultRadius, 0, maxRadius)
	if err != nil {
		return 0, nil, err
	}
	keys, err := h.resolve("word", word)
	if err != nil {
		return 0, nil, err
	}
	return radius, keys, nil
}

// resolve maps user input to graph keys: an exact "lemma/pos" key, or every
// sense of a bare lemma.
func (h *SearchHandler) resolve(field, word string) ([]graph.Key, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, domain.NewValidationError(field, "required")
	}
	if strings.Contains(word, "/") {
		k, err := graph.ParseKey(word)
		if err != nil {
			return nil, domain.NewValidationError(field, err.Error())
		}
		if !h.engine.Graph().Has(k) {
			return nil, fmt.Errorf("%s: %w", k, domain.ErrNodeNotFound)
		}
		return []graph.Key{k}, nil
	}
	keys := h.engine.Resolve(word)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%q: %w", word, domain.ErrNodeNotFound)
	}
	return keys, nil
}

func (h *SearchHandler) resolvePair(a, b, fieldA, fieldB string) ([]graph.Key, []graph.Key, error) {
	as, errA := h.resolve(fieldA, a)
	bs, errB := h.resolve(fieldB, b)
	var ve *domain.ValidationError
	if errors.As(errA, &ve) || errors.As(errB, &ve) {
		// Report every invalid field at once.
		var fields []domain.FieldError
		for _, err := range []error{errA, errB} {
			if errors.As(err, &ve) {
				fields = append(fields, ve.Errors...)
			}
		}
		return nil, nil, domain.NewValidationErrors(fields)
	}
	if err := errors.Join(errA, errB); err != nil {
		return nil, nil, err
	}
	return as, bs, nil
}

func (h *SearchHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		metrics.SearchErrorsTotal.WithLabelValues("validation").Inc()
		writeValidationError(w, ve)
	case errors.Is(err, domain.ErrValidation):
		metrics.SearchErrorsTotal.WithLabelValues("validation").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNodeNotFound):
		metrics.SearchErrorsTotal.WithLabelValues("not_found").Inc()
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoPath):
		metrics.SearchErrorsTotal.WithLabelValues("no_path").Inc()
		writeError(w, http.StatusNotFound, err.Error())
	default:
		metrics.SearchErrorsTotal.WithLabelValues("internal").Inc()
		h.log.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	if v < lo || v > hi {
		return 0, domain.NewValidationError(name, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return v, nil
}

func keyStrings(keys []graph.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
