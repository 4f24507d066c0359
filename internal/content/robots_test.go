package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRobots(t *testing.T) {
	assert.Equal(t, "noarchive, noimageindex", GenerateRobots(false, TypeArticle))
	assert.Equal(t, "noindex, noarchive, noimageindex, nofollow", GenerateRobots(true, TypeArticle))
	assert.Equal(t, "noindex, noarchive, noimageindex, nofollow", GenerateRobots(false, TypePage))
	assert.Equal(t, "noindex, noarchive, noimageindex, nofollow", GenerateRobots(true, TypePage))
}
