package session

import "github.com/rpggio/sommelier/internal/domain/wine"

// State is the observable cursor state.
type State int

const (
	// StateEmpty means no result list is active.
	StateEmpty State = iota
	// StateBrowsing means a non-empty result list with a valid position.
	StateBrowsing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBrowsing:
		return "browsing"
	default:
		return "unknown"
	}
}

// Payload is the opaque per-turn session mapping handed back by the
// dispatcher. The cursor owns only KeyWineList and KeyPosition.
type Payload map[string]any

const (
	KeyWineList = "wine_list"
	KeyPosition = "current_wine_index"
)

// Cursor is a pointer into the current result list. It is rebuilt from the
// payload at the start of every turn and saved back after every mutation;
// nothing about it outlives a turn in process memory.
type Cursor struct {
	state    State
	results  []wine.Wine
	position int
}
