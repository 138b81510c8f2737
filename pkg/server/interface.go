/*
Package server exposes one suggestion engine over msgpack IPC on stdin/stdout.

A client owns the text field and the dropdown. It forwards every edit and focus
change to the server and renders what comes back. Messages are plain msgpack
maps written back to back on the stream, without length prefixes.

# IPC

Every request carries an ID and an op. Other fields depend on the op:

	{"id": "1", "op": "set_items", "items": [{"t": "gmail.com"}, {"t": "yahoo.com"}]}
	{"id": "2", "op": "type", "text": "user@gm"}
	{"id": "3", "op": "submit"}

Every op that changes the field state is answered with the rows to render:

	{"id": "2", "r": [{"t": "gmail.com", "x": "ail.com", "i": 0}], "c": 1, "v": true, "inl": "ail.com", "t": 42}

r holds at most max_results rows, c is the uncapped result count, v tells the
client whether to show the dropdown, inl is the ghost text and t the time
taken in microseconds. Highlight ranges (tr, sr) are [offset, length] pairs in
runes.

Picks and submits add the outcome:

	{"id": "3", ..., "sel": {"a": "assign", "i": 0, "text": "user@gmail.com"}}

# Ops

	set_items  replace the candidate set (items)
	type       the field text changed (text)
	begin      the field gained focus
	end        the field lost focus
	submit     commit the top result
	select     pick the row at index
	results    return the current rows without changing anything
	configure  update engine options (opts), only the given keys change
	health     status and counters

# Events

When the text stays unchanged for typing_stopped_delay_ms the server writes an
unsolicited message:

	{"ev": "typing_stopped"}

# Errors

Failures are answered with an error message and the server keeps reading:

	{"id": "9", "e": "selection index out of range: index 7, 3 results", "c": 404}

400 marks a malformed or oversized request, 404 a pick outside the current
results.
*/
package server

// Request is any client message.
type Request struct {
	ID    string       `msgpack:"id"`
	Op    string       `msgpack:"op"`
	Text  string       `msgpack:"text,omitempty"`
	Items []WireItem   `msgpack:"items,omitempty"`
	Index *int         `msgpack:"index,omitempty"`
	Opts  *WireOptions `msgpack:"opts,omitempty"`
}

// WireItem is a candidate as sent by the client.
type WireItem struct {
	Title    string `msgpack:"t"`
	Subtitle string `msgpack:"s,omitempty"`
	// TitleRange and SubtitleRange are [offset, length] search ranges.
	TitleRange    []int  `msgpack:"tr,omitempty"`
	SubtitleRange []int  `msgpack:"sr,omitempty"`
	Value         string `msgpack:"val,omitempty"`
}

// WireOptions is a partial options update. nil fields keep their value.
type WireOptions struct {
	MaxResults                     *int    `msgpack:"max_results,omitempty"`
	MinCharacters                  *int    `msgpack:"min_characters,omitempty"`
	TypingStoppedDelayMs           *int    `msgpack:"typing_stopped_delay_ms,omitempty"`
	Comparison                     *string `msgpack:"comparison,omitempty"`
	InlineMode                     *bool   `msgpack:"inline_mode,omitempty"`
	StartFilteringAfter            *string `msgpack:"start_filtering_after,omitempty"`
	StartSuggestingImmediately     *bool   `msgpack:"start_suggesting_immediately,omitempty"`
	ForceNoFiltering               *bool   `msgpack:"force_no_filtering,omitempty"`
	StartVisible                   *bool   `msgpack:"start_visible,omitempty"`
	StartVisibleWithoutInteraction *bool   `msgpack:"start_visible_without_interaction,omitempty"`
}

// WireResult is one dropdown row.
type WireResult struct {
	Title          string   `msgpack:"t"`
	Subtitle       string   `msgpack:"s,omitempty"`
	TitleRanges    [][2]int `msgpack:"tr,omitempty"`
	SubtitleRanges [][2]int `msgpack:"sr,omitempty"`
	Completion     string   `msgpack:"x,omitempty"`
	Index          int      `msgpack:"i"`
	Value          string   `msgpack:"val,omitempty"`
}

// WireSelection is the outcome of select and submit.
type WireSelection struct {
	Action string `msgpack:"a"`
	Index  int    `msgpack:"i"`
	Text   string `msgpack:"text,omitempty"`
}

// Response answers every op that touches the field.
type Response struct {
	ID        string         `msgpack:"id"`
	Results   []WireResult   `msgpack:"r"`
	Count     int            `msgpack:"c"`
	Visible   bool           `msgpack:"v"`
	Inline    string         `msgpack:"inl,omitempty"`
	Selection *WireSelection `msgpack:"sel,omitempty"`
	TimeTaken int64          `msgpack:"t"`
}

// StatusResponse answers health and signals readiness.
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// Event is an unsolicited server message.
type Event struct {
	Event string `msgpack:"ev"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
