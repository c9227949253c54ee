package content

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/carlosx8664/skyy-fc/model"
)

// ChannelFeed reads replays from a video channel's RSS/Atom feed, such as
// https://www.youtube.com/feeds/videos.xml?channel_id=ID.
type ChannelFeed struct {
	url     string
	timeout time.Duration
	parser  *gofeed.Parser
}

// NewChannelFeed creates a ChannelFeed for url.
func NewChannelFeed(url string, timeout time.Duration) *ChannelFeed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChannelFeed{
		url:     url,
		timeout: timeout,
		parser:  gofeed.NewParser(),
	}
}

// URL returns the feed address.
func (f *ChannelFeed) URL() string {
	return f.url
}

// Replays retrieves and parses the feed.
func (f *ChannelFeed) Replays(ctx context.Context) ([]model.ReplayItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed from %s: %w", f.url, err)
	}
	return convertFeed(parsed), nil
}

// ParseReplays parses feed content from a string.
func (f *ChannelFeed) ParseReplays(content string) ([]model.ReplayItem, error) {
	if content == "" {
		return nil, fmt.Errorf("feed content is empty")
	}

	parsed, err := f.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return convertFeed(parsed), nil
}

func convertFeed(gf *gofeed.Feed) []model.ReplayItem {
	items := make([]model.ReplayItem, 0, len(gf.Items))
	for _, item := range gf.Items {
		if item.Link == "" {
			continue
		}
		items = append(items, convertItem(item))
	}
	return items
}

// convertItem converts a gofeed.Item to a model.ReplayItem.
func convertItem(item *gofeed.Item) model.ReplayItem {
	replay := model.ReplayItem{
		ID:       item.GUID,
		Title:    item.Title,
		VideoURL: item.Link,
	}

	// Use link as ID if GUID is missing
	if replay.ID == "" {
		replay.ID = item.Link
	}

	if item.PublishedParsed != nil {
		replay.Date = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		replay.Date = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	return replay
}
