package server

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/searchfield/pkg/config"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/bastiangx/searchfield/pkg/typing"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// reply decodes any message the server writes
type reply struct {
	ID      string         `msgpack:"id"`
	Results []WireResult   `msgpack:"r"`
	Count   int            `msgpack:"c"`
	Visible bool           `msgpack:"v"`
	Inline  string         `msgpack:"inl"`
	Sel     *WireSelection `msgpack:"sel"`
	Error   string         `msgpack:"e"`
	Status  string         `msgpack:"status"`
	Stats   map[string]int `msgpack:"stats"`
	Event   string         `msgpack:"ev"`
}

// heldScheduler keeps the last callback until the test fires it
type heldScheduler struct {
	mu sync.Mutex
	f  func()
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

func (s *heldScheduler) AfterFunc(_ time.Duration, f func()) typing.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f = f
	return heldTimer{}
}

func (s *heldScheduler) fire() {
	s.mu.Lock()
	f := s.f
	s.mu.Unlock()
	if f != nil {
		f()
	}
}

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

// runSession feeds requests to a fresh server and returns everything it wrote
// after the ready message.
func runSession(t *testing.T, cfg *config.Config, requests ...Request) []reply {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("Encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	engine := suggest.NewEngineWithScheduler(suggest.DefaultOptions(), &heldScheduler{})
	if err := NewServer(engine, cfg, &in, &out).Start(); err != nil {
		t.Fatalf("Server failed: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var replies []reply
	for {
		var r reply
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("Decoding reply: %v", err)
		}
		replies = append(replies, r)
	}
	if len(replies) == 0 || replies[0].Status != "ready" {
		t.Fatalf("Expected a ready message first, got %+v", replies)
	}
	return replies[1:]
}

func TestSessionStandard(t *testing.T) {
	replies := runSession(t, nil,
		Request{ID: "1", Op: "set_items", Items: []WireItem{{Title: "Apple"}, {Title: "Banana", Subtitle: "yellow"}, {Title: "Apricot"}}},
		Request{ID: "2", Op: "type", Text: "ap"},
		Request{ID: "3", Op: "select", Index: intPtr(5)},
		Request{ID: "4", Op: "select", Index: intPtr(1)},
		Request{ID: "5", Op: "health"},
	)
	if len(replies) != 5 {
		t.Fatalf("Expected 5 replies, got %d", len(replies))
	}

	typed := replies[1]
	if typed.ID != "2" || typed.Count != 2 || !typed.Visible {
		t.Fatalf("Unexpected type reply %+v", typed)
	}
	want := []WireResult{
		{Title: "Apple", TitleRanges: [][2]int{{0, 2}}, Index: 0},
		{Title: "Apricot", TitleRanges: [][2]int{{0, 2}}, Index: 2},
	}
	if !reflect.DeepEqual(typed.Results, want) {
		t.Errorf("Expected %+v, got %+v", want, typed.Results)
	}

	if bad := replies[2]; bad.Count != 404 || bad.Error == "" {
		t.Errorf("Expected a 404 for an out of range pick, got %+v", bad)
	}

	picked := replies[3]
	if picked.Sel == nil || picked.Sel.Action != "assign" || picked.Sel.Text != "Apricot" {
		t.Errorf("Unexpected pick %+v", picked.Sel)
	}
	if len(picked.Results) != 0 || picked.Visible {
		t.Errorf("Pick should clear the dropdown, got %+v", picked)
	}

	if health := replies[4]; health.Status != "ok" || health.Stats["candidates"] != 3 {
		t.Errorf("Unexpected health reply %+v", health)
	}
}

func TestSessionInline(t *testing.T) {
	replies := runSession(t, nil,
		Request{ID: "1", Op: "configure", Opts: &WireOptions{InlineMode: boolPtr(true), StartFilteringAfter: strPtr("@"), MaxResults: intPtr(1)}},
		Request{ID: "2", Op: "set_items", Items: []WireItem{{Title: "gmail.com"}, {Title: "gmx.net"}, {Title: "yahoo.com"}}},
		Request{ID: "3", Op: "type", Text: "user@gm"},
		Request{ID: "4", Op: "submit"},
	)

	typed := replies[2]
	if typed.Inline != "ail.com" || typed.Count != 2 || len(typed.Results) != 1 {
		t.Errorf("Expected ghost text ail.com and 1 of 2 rows, got %+v", typed)
	}
	if typed.Results[0].Completion != "ail.com" {
		t.Errorf("Unexpected completion %q", typed.Results[0].Completion)
	}

	submitted := replies[3]
	if submitted.Sel == nil || submitted.Sel.Text != "user@gmail.com" {
		t.Errorf("Expected user@gmail.com to be committed, got %+v", submitted.Sel)
	}
	if submitted.Inline != "" {
		t.Errorf("Submit should clear the ghost text, got %q", submitted.Inline)
	}
}

func TestSessionSearchRanges(t *testing.T) {
	replies := runSession(t, nil,
		Request{ID: "1", Op: "set_items", Items: []WireItem{
			{Title: "Search: apples", TitleRange: []int{8, 6}, Value: "a"},
			{Title: "apples here", TitleRange: []int{7, 4}},
		}},
		Request{ID: "2", Op: "type", Text: "apple"},
	)
	got := replies[1].Results
	if len(got) != 1 || got[0].Title != "Search: apples" || got[0].Value != "a" {
		t.Errorf("Expected only the in-range hit with its value, got %+v", got)
	}
}

func TestSessionErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxTextLength = 5
	cfg.Server.MaxCandidates = 2

	replies := runSession(t, cfg,
		Request{ID: "1", Op: "type", Text: "toolong"},
		Request{ID: "2", Op: "set_items", Items: []WireItem{{Title: "a"}, {Title: "b"}, {Title: "c"}}},
		Request{ID: "3", Op: "bogus"},
		Request{ID: "4", Op: "select"},
		Request{ID: "5", Op: "set_items", Items: []WireItem{{Title: "a", TitleRange: []int{1}}}},
		Request{ID: "6", Op: "configure", Opts: &WireOptions{Comparison: strPtr("fuzzy")}},
		Request{ID: "7", Op: "configure"},
		Request{ID: "8", Op: "type", Text: "ok"},
	)
	if len(replies) != 8 {
		t.Fatalf("Expected 8 replies, got %d", len(replies))
	}
	for _, r := range replies[:7] {
		if r.Count != 400 || r.Error == "" {
			t.Errorf("Request %s: expected a 400, got %+v", r.ID, r)
		}
	}
	if last := replies[7]; last.Error != "" {
		t.Errorf("Server should keep serving after errors, got %+v", last)
	}
}

func TestSessionTypingStopped(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	sched := &heldScheduler{}
	engine := suggest.NewEngineWithScheduler(suggest.DefaultOptions(), sched)
	srv := NewServer(engine, nil, inR, outW)

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
		outW.Close()
	}()

	dec := msgpack.NewDecoder(outR)
	enc := msgpack.NewEncoder(inW)
	var r reply
	if err := dec.Decode(&r); err != nil || r.Status != "ready" {
		t.Fatalf("Expected ready, got %+v (%v)", r, err)
	}

	if err := enc.Encode(Request{ID: "1", Op: "type", Text: "a"}); err != nil {
		t.Fatal(err)
	}
	r = reply{}
	if err := dec.Decode(&r); err != nil || r.ID != "1" {
		t.Fatalf("Expected the type reply, got %+v (%v)", r, err)
	}

	go sched.fire()
	r = reply{}
	if err := dec.Decode(&r); err != nil || r.Event != "typing_stopped" {
		t.Fatalf("Expected a typing_stopped event, got %+v (%v)", r, err)
	}

	inW.Close()
	if err := <-done; err != nil {
		t.Errorf("Server returned %v", err)
	}
}

func TestApplyOptionsKeepsUnsetFields(t *testing.T) {
	base := suggest.DefaultOptions()
	base.MinCharacters = 2
	base.StartFilteringAfter = "@"

	opts, err := applyOptions(base, WireOptions{TypingStoppedDelayMs: intPtr(100), Comparison: strPtr("case_sensitive")})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.MinCharacters != 2 || opts.StartFilteringAfter != "@" {
		t.Errorf("Unset fields changed: %+v", opts)
	}
	if opts.TypingStoppedDelay != 100*time.Millisecond || opts.Comparison != suggest.CaseSensitive {
		t.Errorf("Set fields not applied: %+v", opts)
	}
}

func TestGarbageInput(t *testing.T) {
	var out bytes.Buffer
	engine := suggest.NewEngineWithScheduler(suggest.DefaultOptions(), &heldScheduler{})
	in := strings.NewReader("\xc1")
	if err := NewServer(engine, nil, in, &out).Start(); err != nil {
		t.Fatalf("Server failed: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("Invalid msgpack request")) {
		t.Error("Expected an error reply for a reserved msgpack code")
	}
}
