package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosx8664/skyy-fc/model"
)

func TestQuery_GROQ(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "type only",
			query: Query{Type: "player"},
			want:  `*[_type == "player"]`,
		},
		{
			name:  "ordered with projection",
			query: Query{Type: "leagueTable", Order: Order{Field: "position"}, Projection: "position, points"},
			want:  `*[_type == "leagueTable"] | order(position asc){position, points}`,
		},
		{
			name:  "defined, since, desc and limit",
			query: Query{Type: "news", Defined: []string{"videoUrl"}, Since: &since, Order: Order{Field: "date", Desc: true}, Limit: 3},
			want:  `*[_type == "news" && defined(videoUrl) && date >= "2026-02-01T00:00:00Z"] | order(date desc)[0...3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.query.Validate())
			assert.Equal(t, tt.want, tt.query.GROQ())
		})
	}
}

func TestGalleryQuery(t *testing.T) {
	require.NoError(t, GalleryQuery.Validate())
	groq := GalleryQuery.GROQ()
	assert.Contains(t, groq, `*[_type == "gallery"] | order(date desc)`)
	assert.Contains(t, groq, `"imageCount": count(images)`)
	assert.Contains(t, AllQueries, GalleryQuery)
}

func TestGallery_Decodes(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, q Query) ([]json.RawMessage, error) {
		require.Equal(t, "gallery", q.Type)
		return []json.RawMessage{
			json.RawMessage(`{"_id":"ga-1","title":"Training","category":"training","imageCount":12,"captions":["Warm-up"]}`),
			json.RawMessage(`{"_id":"ga-2","title":"Empty album","imageCount":0,"captions":null}`),
		}, nil
	})

	albums, err := Gallery(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, 12, albums[0].ImageCount)
	assert.Equal(t, []string{"Warm-up"}, albums[0].Captions)
	assert.Equal(t, "Training", albums[0].CategoryLabel())
	assert.Zero(t, albums[1].ImageCount)
	assert.Nil(t, albums[1].Captions)
}

func TestQuery_ValidateRejectsInjection(t *testing.T) {
	assert.ErrorIs(t, Query{Type: `news" || true`}.Validate(), ErrInvalidField)
	assert.ErrorIs(t, Query{Type: "news", Defined: []string{"a)"}}.Validate(), ErrInvalidField)
	assert.ErrorIs(t, Query{Type: "news", Order: Order{Field: "date desc"}}.Validate(), ErrInvalidField)
	assert.NoError(t, FixturesQuery.Validate())
}

func newSanityServer(t *testing.T, handler http.HandlerFunc) *SanityClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewSanityClient(SanityConfig{BaseURL: srv.URL, Dataset: "production", APIVersion: "2026-02-23", Token: "read-token"})
	require.NoError(t, err)
	return c
}

func TestSanityClient_FetchCollection(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c := newSanityServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"query":"...","result":[{"_id":"fx-1","homeTeam":"Skyy FC","awayTeam":"Hearts","date":"2026-03-07T15:00:00Z"}],"ms":4}`))
	})

	events, err := Fixtures(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Skyy FC", events[0].HomeTeam)

	assert.Equal(t, "/v2026-02-23/data/query/production", gotPath)
	assert.Equal(t, FixturesQuery.GROQ(), gotQuery)
	assert.Equal(t, "Bearer read-token", gotAuth)
}

func TestSanityClient_SingleObjectAndNull(t *testing.T) {
	result := `{"isLive":true,"youtubeUrl":"https://youtu.be/abcDEF12345","matchTitle":"Derby"}`
	c := newSanityServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":` + result + `}`))
	})

	stream, err := LiveStream(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, stream)
	assert.True(t, stream.IsLive)

	result = "null"
	stream, err = LiveStream(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, stream)
}

func TestSanityClient_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := newSanityServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"description":"expected ']' following expression"}}`))
		})
		_, err := c.FetchCollection(context.Background(), StoriesQuery)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected ']'")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newSanityServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway timeout</html>`))
		})
		_, err := c.FetchCollection(context.Background(), StoriesQuery)
		assert.Error(t, err)
	})

	t.Run("invalid query never leaves the process", func(t *testing.T) {
		called := false
		c := newSanityServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		_, err := c.FetchCollection(context.Background(), Query{Type: "bad type"})
		assert.ErrorIs(t, err, ErrInvalidField)
		assert.False(t, called)
	})
}

func TestSanityClient_ResponseTooLarge(t *testing.T) {
	body := `{"result":[{"_id":"p-1","name":"Kofi Mensah"},{"_id":"p-2","name":"Daniel Asare"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := NewSanityClient(SanityConfig{BaseURL: srv.URL, MaxBytes: 32})
	require.NoError(t, err)
	_, err = c.FetchCollection(context.Background(), PlayersQuery)
	assert.ErrorIs(t, err, ErrResponseTooLarge)

	c, err = NewSanityClient(SanityConfig{BaseURL: srv.URL, MaxBytes: int64(len(body))})
	require.NoError(t, err)
	records, err := c.FetchCollection(context.Background(), PlayersQuery)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNewSanityClient_Hosts(t *testing.T) {
	c, err := NewSanityClient(SanityConfig{ProjectID: "qzvxb9vu", UseCDN: true})
	require.NoError(t, err)
	assert.Equal(t, "https://qzvxb9vu.apicdn.sanity.io/v2026-02-23", c.baseURL)

	c, err = NewSanityClient(SanityConfig{ProjectID: "qzvxb9vu", UseCDN: true, Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://qzvxb9vu.api.sanity.io/v2026-02-23", c.baseURL, "authenticated reads skip the CDN")

	_, err = NewSanityClient(SanityConfig{})
	assert.Error(t, err)
}

func TestFetch_SkipsMalformedRecords(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, q Query) ([]json.RawMessage, error) {
		return []json.RawMessage{
			json.RawMessage(`{"position":1,"team":"Skyy FC","points":40}`),
			json.RawMessage(`{"position":"second"}`),
			json.RawMessage(`{"position":3,"team":"Hearts","points":31}`),
		}, nil
	})

	table, err := Standings(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "Hearts", table[1].Team)
}

func TestFetchOrEmpty(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, q Query) ([]json.RawMessage, error) {
		return nil, errors.New("connection refused")
	})

	_, err := Replays(context.Background(), src)
	assert.Error(t, err)
	assert.Empty(t, FetchOrEmpty[model.ReplayItem](context.Background(), src, ReplaysQuery))
}

func TestChannelFeed_ParseReplays(t *testing.T) {
	data, err := os.ReadFile("../testdata/channel.xml")
	require.NoError(t, err)

	f := NewChannelFeed("https://www.youtube.com/feeds/videos.xml?channel_id=UCskyyfc000000000000000", 0)
	items, err := f.ParseReplays(string(data))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "yt:video:hlt0000MD20", items[0].ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=hlt0000MD20", items[0].VideoURL)
	assert.Equal(t, "2026-03-01T18:30:00Z", items[0].Date)
	assert.Contains(t, items[1].Title, "Matchday 19")

	_, err = f.ParseReplays("")
	assert.Error(t, err)
	_, err = f.ParseReplays("<invalid>xml</broken>")
	assert.Error(t, err)
}

func TestChannelFeed_Replays(t *testing.T) {
	data, err := os.ReadFile("../testdata/channel.xml")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write(data)
	}))
	defer srv.Close()

	items, err := NewChannelFeed(srv.URL, time.Second).Replays(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
