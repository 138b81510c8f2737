// Package cli drives a suggestion engine from the terminal for testing and debugging.
//
// Every input line replaces the field text, as if the user had typed it.
// Lines starting with ':' are commands that stand in for the rest of the
// widget: focus changes, row picks, submits and option toggles.
package cli

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/searchfield/internal/logger"
	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/log"
)

const help = `commands:
  :pick N       pick row N (1-based)
  :submit       commit the top row and end editing
  :begin, :end  focus / blur the field
  :clear        empty the field
  :inline on|off
  :after X      inline delimiter ("" to unset)
  :now on|off   suggest right after the delimiter
  :case on|off  case sensitive matching
  :min N        minimum characters
  :limit N      maximum rows
  :stats        engine counters
  :save         write the current options to the config file
  :help`

// InputHandler reads lines and feeds them to the engine. It is the engine's
// View and TextInput, so it always prints what a dropdown would show.
type InputHandler struct {
	engine   *suggest.Engine
	renderer *Renderer
	in       io.Reader
	out      *log.Logger

	// SaveOptions persists options for :save. nil disables the command.
	SaveOptions func(suggest.Options) error

	snap         suggest.Snapshot
	ghost        string
	requestCount int
}

// NewInputHandler creates a handler on stdin/stdout.
func NewInputHandler(engine *suggest.Engine, highlight bool) *InputHandler {
	return NewInputHandlerWithIO(engine, highlight, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a handler on custom streams.
func NewInputHandlerWithIO(engine *suggest.Engine, highlight bool, in io.Reader, out io.Writer) *InputHandler {
	h := &InputHandler{
		engine:   engine,
		renderer: NewRenderer(highlight),
		in:       in,
		out:      logger.NewWithConfig(out, "", log.InfoLevel, false, false, log.TextFormatter),
	}
	engine.SetView(h)
	engine.SetTextInput(h)
	return h
}

// ResultsChanged keeps the snapshot for the next print.
func (h *InputHandler) ResultsChanged(snap suggest.Snapshot) {
	h.snap = snap
}

// InlineChanged keeps the ghost text for the next print.
func (h *InputHandler) InlineChanged(completion string) {
	h.ghost = completion
}

// LoadingChanged prints the loading state.
func (h *InputHandler) LoadingChanged(loading bool) {
	if loading {
		h.out.Print("loading...")
	}
}

// SetText is called when a pick assigns text to the field.
func (h *InputHandler) SetText(text string) {
	h.out.Printf("text set to %q", text)
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("searchfield CLI")
	h.out.Print("type to filter, :help for commands (Ctrl+C to exit)")

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		h.handleInput(strings.TrimRight(scanner.Text(), "\r"))
	}
	h.engine.Close()
	log.Debugf("Input closed after %d lines", h.requestCount)
	return scanner.Err()
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line[1:])
		return
	}

	start := time.Now()
	h.engine.TextChanged(line)
	log.Debugf("Took [ %v ] for text '%s'", time.Since(start), line)
	h.print()
}

func (h *InputHandler) handleCommand(cmd string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	arg = strings.TrimSpace(arg)
	opts := h.engine.Options()

	switch name {
	case "pick":
		n, err := strconv.Atoi(arg)
		if err != nil {
			log.Errorf("Invalid row %q", arg)
			return
		}
		sel, err := h.engine.Select(n - 1)
		if err != nil {
			log.Errorf("Cannot pick row %d: %v", n, err)
			return
		}
		h.out.Printf("picked %q (%s)", sel.Item.Title, sel.Action)
		return
	case "submit":
		sel := h.engine.EndEditingOnSubmit()
		if sel.Action == suggest.ActionNone {
			h.out.Print("nothing to submit")
		} else {
			h.out.Printf("submitted %q", sel.Text)
		}
		return
	case "begin":
		h.engine.BeginEditing()
	case "end":
		h.engine.EndEditing()
		return
	case "clear":
		h.engine.TextChanged("")
	case "inline":
		opts.Mode = suggest.Standard
		if on(arg) {
			opts.Mode = suggest.Inline
		}
		h.engine.SetOptions(opts)
	case "after":
		opts.StartFilteringAfter = unquote(arg)
		h.engine.SetOptions(opts)
	case "now":
		opts.StartSuggestingImmediately = on(arg)
		h.engine.SetOptions(opts)
	case "case":
		opts.Comparison = suggest.CaseInsensitive
		if on(arg) {
			opts.Comparison = suggest.CaseSensitive
		}
		h.engine.SetOptions(opts)
	case "min", "limit":
		n, err := strconv.Atoi(arg)
		if err != nil {
			log.Errorf("Invalid number %q", arg)
			return
		}
		if name == "min" {
			opts.MinCharacters = n
		} else {
			opts.MaxResults = n
		}
		h.engine.SetOptions(opts)
	case "stats":
		for _, key := range []string{"candidates", "results", "rows", "passes"} {
			h.out.Printf("%-10s %s", key, utils.FormatWithCommas(h.engine.Stats()[key]))
		}
		return
	case "save":
		if h.SaveOptions == nil {
			log.Warn("No config file to save to")
			return
		}
		if err := h.SaveOptions(opts); err != nil {
			log.Errorf("Saving options: %v", err)
			return
		}
		h.out.Print("options saved")
		return
	case "help":
		h.out.Print(help)
		return
	default:
		log.Errorf("Unknown command %q (:help lists them)", name)
		return
	}
	h.print()
}

func (h *InputHandler) print() {
	text := h.engine.Text()
	if h.engine.Options().Mode == suggest.Inline {
		h.out.Printf("> %s", h.renderer.Ghost(text, h.ghost))
	}
	if !h.snap.Visible {
		if text != "" {
			h.out.Printf("No suggestions for '%s'", text)
		}
		return
	}
	if h.snap.Total > h.snap.RowCount() {
		h.out.Printf("Showing %d of %d suggestions:", h.snap.RowCount(), h.snap.Total)
	} else {
		h.out.Printf("Found %d suggestions:", h.snap.Total)
	}
	for _, line := range h.renderer.Rows(h.snap) {
		h.out.Print(line)
	}
}

func on(arg string) bool {
	switch strings.ToLower(arg) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func unquote(arg string) string {
	if s, err := strconv.Unquote(arg); err == nil {
		return s
	}
	return arg
}
