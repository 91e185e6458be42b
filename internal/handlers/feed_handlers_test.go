package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"bayou-blog/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexServesNewestFirst(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	seedPost(t, s, alice, "first")
	seedPost(t, s, alice, "second")

	rec := doRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var page models.PostPage
	decodeBody(t, rec, &page)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "alice", page.Posts[0].AuthorUsername)
}

func TestIndexServesStaleCachedPage(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	post := seedPost(t, s, alice, "soon to vanish")

	first := doRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Contains(t, first.Body.String(), "soon to vanish")

	// Deleting the post does not touch the cache: the stale page keeps
	// being served until the TTL lapses or the cache is cleared.
	require.NoError(t, s.Store.DeletePost(context.Background(), post.ID))

	second := doRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	s.Cache.Clear(context.Background())

	third := doRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.NotContains(t, third.Body.String(), "soon to vanish")
}

func TestIndexCachesPerPage(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	seedPost(t, s, alice, "only post")

	doRequest(t, s, http.MethodGet, "/", "", nil)

	// A different page is a different cache entry.
	rec := doRequest(t, s, http.MethodGet, "/?page=2", "", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	var page models.PostPage
	decodeBody(t, rec, &page)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 2, page.Page)
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/group/no-such-group/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupFeed(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	group := &models.Group{ID: uuid.New(), Title: "Jazz", Slug: "jazz", CreatorID: alice.ID}
	require.NoError(t, s.Store.CreateGroup(context.Background(), group))

	inGroup := &models.Post{ID: uuid.New(), Text: "in jazz", AuthorID: alice.ID, GroupID: &group.ID}
	require.NoError(t, s.Store.SavePost(context.Background(), inGroup))
	seedPost(t, s, alice, "outside")

	rec := doRequest(t, s, http.MethodGet, "/group/jazz/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Group *models.Group `json:"group"`
		models.PostPage
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Jazz", body.Group.Title)
	assert.Equal(t, 1, body.TotalCount)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "in jazz", body.Posts[0].Text)
}

func TestProfileUnknownUser(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/profile/nobody/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileShowsFollowingState(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	bob, bobToken := seedUser(t, s, "bob")
	seedPost(t, s, alice, "hello")
	require.NoError(t, s.Store.CreateFollow(context.Background(), bob.ID, alice.ID))

	rec := doRequest(t, s, http.MethodGet, "/profile/alice/", bobToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Author    *models.User `json:"author"`
		Following bool         `json:"following"`
		models.PostPage
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "alice", body.Author.Username)
	assert.True(t, body.Following)
	assert.Equal(t, 1, body.TotalCount)

	// Anonymous visitors never appear to follow anyone.
	anon := doRequest(t, s, http.MethodGet, "/profile/alice/", "", nil)
	decodeBody(t, anon, &body)
	assert.False(t, body.Following)
}

func TestPostDetailBadID(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/posts/not-a-uuid/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostDetailWithComments(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	post := seedPost(t, s, alice, "discuss")

	comment := &models.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: alice.ID, Text: "first!"}
	require.NoError(t, s.Store.SaveComment(context.Background(), comment))

	rec := doRequest(t, s, http.MethodGet, "/posts/"+post.ID.String()+"/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Post     *models.Post      `json:"post"`
		Comments []*models.Comment `json:"comments"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "discuss", body.Post.Text)
	assert.Equal(t, 1, body.Post.CommentCount)
	require.Len(t, body.Comments, 1)
	assert.Equal(t, "first!", body.Comments[0].Text)
}

func TestFollowFeedRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/follow/", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/auth/login/?next="))
}

func TestFollowFeedOnlyFollowedAuthors(t *testing.T) {
	s := newTestServer(t)
	alice, _ := seedUser(t, s, "alice")
	bob, _ := seedUser(t, s, "bob")
	carol, carolToken := seedUser(t, s, "carol")

	seedPost(t, s, alice, "from alice")
	seedPost(t, s, bob, "from bob")
	require.NoError(t, s.Store.CreateFollow(context.Background(), carol.ID, alice.ID))

	rec := doRequest(t, s, http.MethodGet, "/follow/", carolToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.PostPage
	decodeBody(t, rec, &page)
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "from alice", page.Posts[0].Text)
}
