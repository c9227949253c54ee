package broadcast

import (
	"github.com/carlosx8664/skyy-fc/model"
)

// Placeholder messages shown instead of a player.
const (
	MessageLinkMissing = "Live match link missing"
	MessageNoSelection = "Pick a match to watch"
	MessageNoBroadcast = "No previous matches yet"
)

// View is the flattened, JSON-friendly form of a State.
type View struct {
	Mode        Mode         `json:"mode"`
	Title       string       `json:"title"`
	Embed       string       `json:"embed,omitempty"`
	SourceURL   string       `json:"sourceUrl,omitempty"`
	LinkMissing bool         `json:"linkMissing,omitempty"`
	Locked      bool         `json:"locked"`
	SelectedID  string       `json:"selectedId,omitempty"`
	Message     string       `json:"message,omitempty"`
	Items       []ReplayLine `json:"items"`
}

// ReplayLine is a replay as listed in the sidebar.
type ReplayLine struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DateLabel string `json:"dateLabel,omitempty"`
	Active    bool   `json:"active"`
	Playable  bool   `json:"playable"`
}

// Render flattens a state for display.
func Render(s State) View {
	switch st := s.(type) {
	case Live:
		v := View{
			Mode:      ModeLive,
			Title:     st.Title,
			Embed:     st.Embed,
			SourceURL: st.SourceURL,
			Locked:    true,
			Items:     lines(st.Items, st.Pending),
		}
		if v.Title == "" {
			v.Title = "LIVE"
		}
		if st.LinkMissing() {
			v.LinkMissing = true
			v.Message = MessageLinkMissing
		}
		return v
	case Replay:
		v := View{
			Mode:       ModeReplay,
			Title:      st.Selected().Title,
			Embed:      st.Embed,
			SelectedID: st.SelectedID,
			Items:      lines(st.Items, st.SelectedID),
		}
		if v.Embed == "" {
			v.Message = MessageNoSelection
		}
		return v
	default:
		return View{
			Mode:    ModeEmpty,
			Title:   "WATCH",
			Message: MessageNoBroadcast,
			Items:   []ReplayLine{},
		}
	}
}

func lines(items []model.ReplayItem, active string) []ReplayLine {
	out := make([]ReplayLine, len(items))
	for i, item := range items {
		_, playable := VideoID(item.VideoURL)
		out[i] = ReplayLine{
			ID:       item.ID,
			Title:    item.Title,
			Active:   item.ID == active,
			Playable: playable,
		}
		if _, ok := item.Published(); ok {
			out[i].DateLabel = model.DateLabel(item.Date)
		}
	}
	return out
}
