package mangadex

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/assistant-actions/internal/domain/manga"
	"github.com/yanqian/assistant-actions/internal/infra/tokencache"
)

const feedFixture = `{
  "result": "ok",
  "data": [
    {
      "id": "chapter-1",
      "type": "chapter",
      "attributes": {"title": "The Journey", "chapter": "120", "pages": 18, "publishAt": "2024-03-09T10:00:00+00:00", "readableAt": "2024-03-10T09:00:00+00:00"},
      "relationships": [
        {"id": "group-1", "type": "scanlation_group"},
        {"id": "manga-1", "type": "manga", "attributes": {
          "title": {"ja-ro": "Sousou no Frieren"},
          "altTitles": [{"ja": "葬送のフリーレン"}, {"en": "Frieren: Beyond Journey's End"}],
          "description": {"en": "An elf mage."},
          "year": 2020,
          "status": "ongoing",
          "contentRating": "safe"
        }}
      ]
    },
    {
      "id": "chapter-2",
      "type": "chapter",
      "attributes": {"title": null, "pages": 1, "publishAt": "2024-03-08T10:00:00+00:00", "readableAt": ""},
      "relationships": [
        {"id": "manga-2", "type": "manga", "attributes": {"title": {"en": "Dandadan"}, "altTitles": [], "description": {}, "year": null, "status": "", "contentRating": "suggestive"}}
      ]
    }
  ],
  "limit": 2,
  "offset": 0,
  "total": 2
}`

func TestFollowedFeed(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "password", r.PostForm.Get("grant_type"))
		require.Equal(t, "reader", r.PostForm.Get("username"))
		require.Equal(t, "hunter2", r.PostForm.Get("password"))
		require.Equal(t, "personal-client", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-abc","token_type":"Bearer","expires_in":900,"refresh_token":"refresh-xyz"}`))
	})
	mux.HandleFunc("/user/follows/manga/feed", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-abc", r.Header.Get("Authorization"))
		q := r.URL.Query()
		require.Equal(t, "2", q.Get("limit"))
		require.Equal(t, "0", q.Get("offset"))
		require.Equal(t, []string{"manga"}, q["includes[]"])
		require.Equal(t, []string{"safe", "suggestive"}, q["contentRating[]"])
		require.Equal(t, []string{"en"}, q["translatedLanguage[]"])
		require.Equal(t, "desc", q.Get("order[readableAt]"))
		_, _ = w.Write([]byte(feedFixture))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv.URL)

	result := client.FollowedFeed(context.Background(), 2)
	require.Equal(t, manga.FeedAvailable, result.Status)
	require.Len(t, result.Entries, 2)

	first := result.Entries[0]
	require.Equal(t, "chapter-1", first.ID)
	require.Equal(t, "Sousou no Frieren", first.Title)
	require.Equal(t, "Frieren: Beyond Journey's End", first.AltTitle)
	require.Equal(t, "The Journey", first.ChapterTitle)
	require.Equal(t, 18, first.Pages)
	require.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), first.PublishedAt.UTC())
	require.Equal(t, manga.Manga{ID: "manga-1", Description: "An elf mage.", Year: 2020, Status: "ongoing", ContentRating: "safe"}, first.Manga)

	second := result.Entries[1]
	require.Equal(t, "Dandadan", second.Title)
	require.Empty(t, second.AltTitle)
	require.Empty(t, second.ChapterTitle)
	require.Zero(t, second.Manga.Year)
	require.Equal(t, time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC), second.PublishedAt.UTC())

	// the cached token is reused
	result = client.FollowedFeed(context.Background(), 2)
	require.Equal(t, manga.FeedAvailable, result.Status)
	require.EqualValues(t, 1, tokenCalls.Load())
}

func TestFollowedFeedEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/user/follows/manga/feed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","data":[],"total":0}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := newTestClient(srv.URL).FollowedFeed(context.Background(), 5)
	require.Equal(t, manga.FeedEmpty, result.Status)
}

func TestFollowedFeedUnavailable(t *testing.T) {
	badAuth := http.NewServeMux()
	badAuth.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
	})
	srv := httptest.NewServer(badAuth)
	defer srv.Close()

	result := newTestClient(srv.URL).FollowedFeed(context.Background(), 5)
	require.Equal(t, manga.FeedUnavailable, result.Status)

	badFeed := http.NewServeMux()
	badFeed.HandleFunc("/token", tokenHandler)
	badFeed.HandleFunc("/user/follows/manga/feed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv2 := httptest.NewServer(badFeed)
	defer srv2.Close()

	result = newTestClient(srv2.URL).FollowedFeed(context.Background(), 5)
	require.Equal(t, manga.FeedUnavailable, result.Status)
}

func TestPickTitle(t *testing.T) {
	require.Equal(t, "English", pickTitle(map[string]string{"en": "English", "ja-ro": "Romaji"}))
	require.Equal(t, "Romaji", pickTitle(map[string]string{"ja-ro": "Romaji", "ja": "日本語"}))
	require.Equal(t, "Deutsch", pickTitle(map[string]string{"fr": "", "de": "Deutsch"}))
	require.Empty(t, pickTitle(nil))
}

func tokenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"access_token":"access-abc","token_type":"Bearer","expires_in":900}`))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		AuthURL:      baseURL + "/token",
		APIURL:       baseURL,
		Username:     "reader",
		Password:     "hunter2",
		ClientID:     "personal-client",
		ClientSecret: "s3cret",
		Timeout:      time.Second,
	}, tokencache.NewMemoryCache(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}
