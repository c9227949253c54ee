package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carlosx8664/skyy-fc/countdown"
	"github.com/carlosx8664/skyy-fc/view"
)

// countdownEvent is the payload of a "countdown" SSE event.
type countdownEvent struct {
	Target string `json:"target"`
	countdown.Remaining
	Label string `json:"label"`
}

// handleCountdown streams the countdown to the next fixture. Each connection
// owns its panel, so its ticker lives exactly as long as the request.
func handleCountdown(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		// Ticks carry their own target so values queued before a retarget
		// are not mislabelled.
		ticks := make(chan countdownEvent, 16)
		var panel *view.MatchPanel
		panel = view.NewMatchPanel(opts.Source, opts.Clock, 1, func(rem countdown.Remaining) {
			select {
			case ticks <- countdownEvent{Target: panel.Target(), Remaining: rem, Label: rem.String()}:
			default:
				// Drop if the client is slow.
			}
		})
		defer panel.Close()

		refresh := opts.Clock.NewTicker(opts.Refresh)
		defer refresh.Stop()

		load := func() {
			if !panel.Load(r.Context()) {
				return
			}
			writeEvent(w, "fixture", panel.Snapshot().Next)
			flusher.Flush()
		}
		load()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev := <-ticks:
				writeEvent(w, "countdown", ev)
				flusher.Flush()
			case <-refresh.Chan():
				load()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) {
	data, _ := json.Marshal(v)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
