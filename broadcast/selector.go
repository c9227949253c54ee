// Package broadcast chooses what the watch view plays: the live stream, one
// replay, or nothing.
package broadcast

import (
	"errors"
	"slices"
	"sync"

	"github.com/carlosx8664/skyy-fc/model"
)

// ErrUnknownReplay is returned when a selection names a replay that is not in
// the current collection.
var ErrUnknownReplay = errors.New("replay not found")

// Mode names a broadcast state.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeReplay Mode = "replay"
	ModeEmpty  Mode = "empty"
)

// State is one of Live, Replay or Empty.
type State interface {
	Mode() Mode
	isState()
}

// Live is shown while a match is being streamed. Replays stay listed but are
// locked; Pending is the selection that will apply once the stream ends.
type Live struct {
	Title     string
	SourceURL string
	// Embed is empty when SourceURL has no playable reference.
	Embed   string
	Items   []model.ReplayItem
	Pending string
}

// LinkMissing reports a live stream whose URL could not be turned into a player.
func (l Live) LinkMissing() bool { return l.Embed == "" }

// Replay plays one previously broadcast match.
type Replay struct {
	SelectedID string
	Items      []model.ReplayItem
	Embed      string
}

// Selected returns the selected replay.
func (r Replay) Selected() model.ReplayItem {
	for _, item := range r.Items {
		if item.ID == r.SelectedID {
			return item
		}
	}
	return model.ReplayItem{}
}

// Empty means there is neither a live stream nor any replay.
type Empty struct{}

func (Live) Mode() Mode   { return ModeLive }
func (Replay) Mode() Mode { return ModeReplay }
func (Empty) Mode() Mode  { return ModeEmpty }

func (Live) isState()   {}
func (Replay) isState() {}
func (Empty) isState()  {}

// Snapshot is the data delivered by one refresh. A source whose fetch failed
// is delivered as nil or empty.
type Snapshot struct {
	Live    *model.LiveStream
	Replays []model.ReplayItem
}

// Selector is the broadcast state machine for one watch view.
type Selector struct {
	mu       sync.Mutex
	state    State
	live     model.LiveStream
	items    []model.ReplayItem
	selected string
	// picked is set when selected came from Select rather than the default.
	picked bool
}

// NewSelector returns a Selector in the Empty state.
func NewSelector() *Selector {
	return &Selector{state: Empty{}}
}

// State returns the current state.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh applies freshly fetched data. A live flag always wins; otherwise the
// newest replay is selected unless the user picked one that is still available.
func (s *Selector) Refresh(snap Snapshot) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = SortReplays(snap.Replays)
	s.live = model.LiveStream{}
	if snap.Live != nil {
		s.live = *snap.Live
	}

	if !s.picked || !s.contains(s.selected) {
		s.selected = ""
		s.picked = false
	}

	switch {
	case s.live.IsLive:
		s.state = s.liveState()
	case len(s.items) > 0:
		if s.selected == "" {
			s.selected = s.items[0].ID
		}
		s.state = s.replayState()
	default:
		s.state = Empty{}
	}
	return s.state
}

// Select picks a replay. While live the choice is only remembered and the
// visible state does not change.
func (s *Selector) Select(id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contains(id) {
		return s.state, ErrUnknownReplay
	}
	s.selected = id
	s.picked = true

	switch s.state.(type) {
	case Live:
		s.state = s.liveState()
	case Replay:
		s.state = s.replayState()
	}
	return s.state, nil
}

func (s *Selector) liveState() Live {
	embed, _ := EmbedURL(s.live.YouTubeURL, true)
	return Live{
		Title:     s.live.MatchTitle,
		SourceURL: s.live.YouTubeURL,
		Embed:     embed,
		Items:     slices.Clone(s.items),
		Pending:   s.selected,
	}
}

func (s *Selector) replayState() Replay {
	r := Replay{
		SelectedID: s.selected,
		Items:      slices.Clone(s.items),
	}
	r.Embed, _ = EmbedURL(r.Selected().VideoURL, true)
	return r
}

func (s *Selector) contains(id string) bool {
	return slices.ContainsFunc(s.items, func(item model.ReplayItem) bool {
		return item.ID == id
	})
}
