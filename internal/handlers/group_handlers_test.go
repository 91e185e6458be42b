package handlers

import (
	"net/http"
	"testing"

	"bayou-blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupDerivesSlug(t *testing.T) {
	s := newTestServer(t)
	_, token := seedUser(t, s, "alice")

	rec := doRequest(t, s, http.MethodPost, "/groups/", token, map[string]string{
		"title":       "Jazz Corner",
		"description": "All things jazz",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var group models.Group
	decodeBody(t, rec, &group)
	assert.Equal(t, "jazz-corner", group.Slug)
	assert.Equal(t, "Jazz Corner", group.Title)
}

func TestCreateGroupDuplicateSlug(t *testing.T) {
	s := newTestServer(t)
	_, token := seedUser(t, s, "alice")

	first := doRequest(t, s, http.MethodPost, "/groups/", token, map[string]string{"title": "Jazz Corner"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(t, s, http.MethodPost, "/groups/", token, map[string]string{"title": "Jazz Corner"})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestCreateGroupMissingTitle(t *testing.T) {
	s := newTestServer(t)
	_, token := seedUser(t, s, "alice")

	rec := doRequest(t, s, http.MethodPost, "/groups/", token, map[string]string{"description": "untitled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGroupsSortedByTitle(t *testing.T) {
	s := newTestServer(t)
	_, token := seedUser(t, s, "alice")

	for _, title := range []string{"Zydeco", "Blues", "Jazz"} {
		rec := doRequest(t, s, http.MethodPost, "/groups/", token, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, s, http.MethodGet, "/groups/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var groups []*models.Group
	decodeBody(t, rec, &groups)
	require.Len(t, groups, 3)
	assert.Equal(t, "Blues", groups[0].Title)
	assert.Equal(t, "Jazz", groups[1].Title)
	assert.Equal(t, "Zydeco", groups[2].Title)
}
