package douban

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<ol class="grid_view">
  <li>
    <div class="item">
      <div class="pic">
        <em class="">1</em>
        <a href="https://movie.example.com/subject/1292052/">
          <img width="100" alt="肖申克的救赎" src="https://img.example.com/p480747492.jpg" class="">
        </a>
      </div>
      <div class="info">
        <div class="hd">
          <a href="https://movie.example.com/subject/1292052/" class="">
            <span class="title">肖申克的救赎</span>
            <span class="title">&nbsp;/&nbsp;The Shawshank Redemption</span>
            <span class="other">&nbsp;/&nbsp;月黑高飞(港)</span>
          </a>
        </div>
        <div class="bd">
          <p class="">导演: 弗兰克·德拉邦特<br>1994&nbsp;/&nbsp;美国&nbsp;/&nbsp;犯罪 剧情</p>
          <div class="star">
            <span class="rating5-t"></span>
            <span class="rating_num" property="v:average">9.7</span>
            <span property="v:best" content="10.0"></span>
            <span>2994539人评价</span>
          </div>
          <p class="quote">
            <span class="inq">希望让人自由。</span>
          </p>
        </div>
      </div>
    </div>
  </li>
  <li>
    <div class="item">
      <div class="pic">
        <img alt="霸王别姬" src="https://img.example.com/p2561716440.jpg">
      </div>
      <div class="info">
        <div class="hd"><span class="title">霸王别姬</span></div>
        <div class="bd">
          <div class="star">
            <span class="rating_num" property="v:average">9.6</span>
            <span>2,223,767人评价</span>
          </div>
        </div>
      </div>
    </div>
  </li>
  <li>
    <div class="item">
      <div class="pic"><img alt="broken" src=""></div>
      <div class="info"></div>
    </div>
  </li>
</ol>
</body></html>`

func TestParseListPage_ExtractsItems(t *testing.T) {
	items, err := ParseListPage([]byte(samplePage))
	require.NoError(t, err)
	// The third block has no title and is skipped.
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "肖申克的救赎", first.Title)
	assert.Equal(t, "https://img.example.com/p480747492.jpg", first.PosterURL)
	assert.Equal(t, 9.7, first.Rating)
	assert.Equal(t, 2994539, first.CommentCount)
	assert.Equal(t, "希望让人自由。", first.Quote)

	second := items[1]
	assert.Equal(t, "霸王别姬", second.Title)
	assert.Equal(t, 9.6, second.Rating)
	// Comma-formatted rater counts parse the same as bare ones.
	assert.Equal(t, 2223767, second.CommentCount)
	// No quote span: the intro stays empty rather than erroring.
	assert.Empty(t, second.Quote)
}

func TestParseListPage_EmptyPage(t *testing.T) {
	items, err := ParseListPage([]byte("<html><body><p>no movies here</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseListPage_MalformedHTML(t *testing.T) {
	// The html package repairs broken markup instead of failing.
	items, err := ParseListPage([]byte(`<div class="item"><span class="title">Lonely`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lonely", items[0].Title)
}
