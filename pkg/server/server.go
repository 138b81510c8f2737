package server

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bastiangx/searchfield/internal/logger"
	"github.com/bastiangx/searchfield/pkg/config"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server drives one engine from a msgpack request stream.
type Server struct {
	engine suggest.ISuggester
	config *config.Config
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	// writeMu serializes responses with typing-stopped events from the timer goroutine.
	writeMu  sync.Mutex
	logger   *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing to w.
func NewServer(engine suggest.ISuggester, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		engine: engine,
		config: cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
		logger: logger.New("server"),
	}
	engine.SetTypingStoppedHandler(s.typingStopped)
	return s
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	defer s.engine.Close()

	s.send(StatusResponse{Status: "ready"})
	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	start := time.Now()
	if n := len([]rune(req.Text)); s.config.Server.MaxTextLength > 0 && n > s.config.Server.MaxTextLength {
		s.sendError(req.ID, fmt.Sprintf("Text exceeds maximum length of %d characters", s.config.Server.MaxTextLength), 400)
		return
	}
	if s.config.Server.MaxCandidates > 0 && len(req.Items) > s.config.Server.MaxCandidates {
		s.sendError(req.ID, fmt.Sprintf("Too many items: %d (maximum %d)", len(req.Items), s.config.Server.MaxCandidates), 400)
		return
	}
	s.logger.Debug("Processing request", "id", req.ID, "op", req.Op)

	var sel *suggest.Selection
	switch req.Op {
	case "set_items":
		items, err := toItems(req.Items)
		if err != nil {
			s.sendError(req.ID, err.Error(), 400)
			return
		}
		s.engine.SetCandidates(items)
	case "type":
		s.engine.TextChanged(req.Text)
	case "begin":
		s.engine.BeginEditing()
	case "end":
		s.engine.EndEditing()
	case "submit":
		result := s.engine.EndEditingOnSubmit()
		sel = &result
	case "select":
		if req.Index == nil {
			s.sendError(req.ID, "Missing 'index' parameter", 400)
			return
		}
		result, err := s.engine.Select(*req.Index)
		if err != nil {
			s.sendError(req.ID, err.Error(), 404)
			return
		}
		sel = &result
	case "results":
	case "configure":
		if req.Opts == nil {
			s.sendError(req.ID, "Missing 'opts' parameter", 400)
			return
		}
		opts, err := applyOptions(s.engine.Options(), *req.Opts)
		if err != nil {
			s.sendError(req.ID, err.Error(), 400)
			return
		}
		s.engine.SetOptions(opts)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: s.engine.Stats()})
		return
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
		return
	}
	s.send(s.response(req.ID, sel, time.Since(start)))
}

func (s *Server) response(id string, sel *suggest.Selection, elapsed time.Duration) Response {
	snap := s.engine.Snapshot()
	resp := Response{
		ID:        id,
		Results:   make([]WireResult, 0, len(snap.Results)),
		Count:     snap.Total,
		Visible:   snap.Visible,
		Inline:    s.engine.InlineCompletion(),
		TimeTaken: elapsed.Microseconds(),
	}
	for _, r := range snap.Results {
		resp.Results = append(resp.Results, toWireResult(r))
	}
	if sel != nil {
		resp.Selection = &WireSelection{
			Action: sel.Action.String(),
			Index:  sel.Index,
			Text:   sel.Text,
		}
	}
	return resp
}

func (s *Server) typingStopped() {
	s.logger.Debug("Typing stopped")
	s.send(Event{Event: "typing_stopped"})
}

func (s *Server) send(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.logger.Debugf("Request %q failed (%d): %s", id, code, message)
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func toItems(wire []WireItem) ([]*suggest.Item, error) {
	items := make([]*suggest.Item, 0, len(wire))
	for i, w := range wire {
		titleRange, err := toRange(w.TitleRange)
		if err != nil {
			return nil, fmt.Errorf("item %d title range: %w", i, err)
		}
		subtitleRange, err := toRange(w.SubtitleRange)
		if err != nil {
			return nil, fmt.Errorf("item %d subtitle range: %w", i, err)
		}
		var object any
		if w.Value != "" {
			object = w.Value
		}
		items = append(items, suggest.NewRangedItem(w.Title, w.Subtitle, titleRange, subtitleRange, object))
	}
	return items, nil
}

func toRange(pair []int) (*suggest.Range, error) {
	switch len(pair) {
	case 0:
		return nil, nil
	case 2:
		return &suggest.Range{Offset: pair[0], Length: pair[1]}, nil
	}
	return nil, fmt.Errorf("expected [offset, length], got %v", pair)
}

func toWireResult(r suggest.Result) WireResult {
	w := WireResult{
		Title:          r.Item.Title,
		Subtitle:       r.Item.Subtitle,
		TitleRanges:    toPairs(r.TitleRanges),
		SubtitleRanges: toPairs(r.SubtitleRanges),
		Completion:     r.Completion,
		Index:          r.Index,
	}
	if v, ok := r.Item.Object.(string); ok {
		w.Value = v
	}
	return w
}

func toPairs(ranges []suggest.Range) [][2]int {
	if len(ranges) == 0 {
		return nil
	}
	pairs := make([][2]int, len(ranges))
	for i, r := range ranges {
		pairs[i] = [2]int{r.Offset, r.Length}
	}
	return pairs
}

func applyOptions(opts suggest.Options, w WireOptions) (suggest.Options, error) {
	if w.MaxResults != nil {
		opts.MaxResults = *w.MaxResults
	}
	if w.MinCharacters != nil {
		opts.MinCharacters = *w.MinCharacters
	}
	if w.TypingStoppedDelayMs != nil {
		opts.TypingStoppedDelay = time.Duration(*w.TypingStoppedDelayMs) * time.Millisecond
	}
	if w.Comparison != nil {
		cmp, ok := suggest.ParseComparison(*w.Comparison)
		if !ok {
			return opts, fmt.Errorf("unknown comparison %q", *w.Comparison)
		}
		opts.Comparison = cmp
	}
	if w.InlineMode != nil {
		opts.Mode = suggest.Standard
		if *w.InlineMode {
			opts.Mode = suggest.Inline
		}
	}
	if w.StartFilteringAfter != nil {
		opts.StartFilteringAfter = *w.StartFilteringAfter
	}
	if w.StartSuggestingImmediately != nil {
		opts.StartSuggestingImmediately = *w.StartSuggestingImmediately
	}
	if w.ForceNoFiltering != nil {
		opts.ForceNoFiltering = *w.ForceNoFiltering
	}
	if w.StartVisible != nil {
		opts.StartVisible = *w.StartVisible
	}
	if w.StartVisibleWithoutInteraction != nil {
		opts.StartVisibleWithoutInteraction = *w.StartVisibleWithoutInteraction
	}
	return opts, nil
}
