package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(query string) Params {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/x?"+query, nil)
	return Parse(c)
}

func TestParse_Defaults(t *testing.T) {
	p := parseQuery("")
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, p)
}

func TestParse_Values(t *testing.T) {
	p := parseQuery("page=3&limit=10&search=%20Perez%20")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)
	assert.Equal(t, "Perez", p.Search)
}

func TestParse_Clamps(t *testing.T) {
	assert.Equal(t, MaxLimit, parseQuery("limit=1000").Limit)
	assert.Equal(t, DefaultLimit, parseQuery("limit=0").Limit)
	assert.Equal(t, DefaultPage, parseQuery("page=-4").Page)
	assert.Equal(t, DefaultPage, parseQuery("page=abc").Page)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%perez%", New(1, 10, "PeReZ").LikePattern())
	assert.Equal(t, `%50\%%`, New(1, 10, "50%").LikePattern())
	assert.Equal(t, `%a\_b%`, New(1, 10, "a_b").LikePattern())
}
