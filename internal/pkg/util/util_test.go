package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"ai, art ,AI,,#neon", []string{"ai", "art", "neon"}},
		{" , , ", []string{}},
		{"Sci-Fi,sci-fi,space", []string{"sci-fi", "space"}},
		{"AI,#Neon", []string{"ai", "neon"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTags(tt.in), tt.in)
	}
}

func TestParseObjectID(t *testing.T) {
	_, ok := ParseObjectID("not-an-id")
	assert.False(t, ok)
	_, ok = ParseObjectID("000000000000000000000000")
	assert.False(t, ok)

	id, ok := ParseObjectID("64b7f0f0f0f0f0f0f0f0f0f0")
	require.True(t, ok)
	assert.Equal(t, "64b7f0f0f0f0f0f0f0f0f0f0", id.Hex())
}

func TestPagination(t *testing.T) {
	page, limit, skip := Pagination(0, 0, 12, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, limit)
	assert.Equal(t, int64(0), skip)

	page, limit, skip = Pagination(3, 100, 12, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, int64(100), skip)

	page, limit, skip = Pagination(math.MaxInt64/20+2, 20, 12, 50)
	assert.Equal(t, MaxPage, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, int64(MaxPage-1)*20, skip)

	assert.Equal(t, 0, Pages(0, 12))
	assert.Equal(t, 1, Pages(12, 12))
	assert.Equal(t, 2, Pages(13, 12))
}

type sampleDTO struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidateDTO(t *testing.T) {
	err := ValidateDTO(&sampleDTO{Username: "ok_name", Email: "a@b.co"})
	assert.NoError(t, err)

	err = ValidateDTO(&sampleDTO{Username: "no spaces", Email: "a@b.co"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)

	err = ValidateDTO(&sampleDTO{Username: "ok_name"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email is required", ve.Error())
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("guest@example.com"))
	assert.False(t, IsEmail("guest"))
	assert.False(t, IsEmail(""))
}
