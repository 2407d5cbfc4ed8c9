// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package explorer

// State is where a submission ended up.
//
//	Idle -> Fetching -> {Rendered | EmptyResult | Errored}
//
// Fetching is only ever observed in logs since Submit blocks until the fetch
// completes. Every terminal state accepts a new submission.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRendered
	StateEmptyResult
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRendered:
		return "rendered"
	case StateEmptyResult:
		return "empty_result"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NoticeLevel is the tone of the banner shown above the tabs.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a banner message. Message uses **bold** and *italic* markers
// around the query text and category.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Dashboard copy.
const (
	PromptMessage  = "Please enter a search term in the sidebar to begin."
	MapHintMessage = "Click the 'Generate Map Points' button in the sidebar to display the map."
)
