package forms

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFormValidate(t *testing.T) {
	valid := PostForm{Text: "hello"}
	assert.Nil(t, valid.Validate())

	empty := PostForm{}
	errs := empty.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "text")

	badGroup := PostForm{Text: "hello", Group: "not-a-uuid"}
	errs = badGroup.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "group")

	longImage := PostForm{Text: "hello", Image: strings.Repeat("x", 256)}
	errs = longImage.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "image")
}

func TestPostFormGroupID(t *testing.T) {
	none := PostForm{Text: "hello"}
	assert.Nil(t, none.GroupID())

	id := uuid.New()
	withGroup := PostForm{Text: "hello", Group: id.String()}
	got := withGroup.GroupID()
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	malformed := PostForm{Text: "hello", Group: "nope"}
	assert.Nil(t, malformed.GroupID())
}

func TestPostFormImageRef(t *testing.T) {
	none := PostForm{Text: "hello"}
	assert.Nil(t, none.ImageRef())

	withImage := PostForm{Text: "hello", Image: "posts/cat.jpg"}
	got := withImage.ImageRef()
	require.NotNil(t, got)
	assert.Equal(t, "posts/cat.jpg", *got)
}

func TestCommentFormValidate(t *testing.T) {
	valid := CommentForm{Text: "nice"}
	assert.Nil(t, valid.Validate())

	empty := CommentForm{}
	errs := empty.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "text")
}

func TestGroupFormValidate(t *testing.T) {
	valid := GroupForm{Title: "Jazz Corner"}
	assert.Nil(t, valid.Validate())

	empty := GroupForm{}
	errs := empty.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")

	longSlug := GroupForm{Title: "Jazz", Slug: strings.Repeat("a", 51)}
	errs = longSlug.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "slug")
}
