package archive

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const ellipsis = "..."

// Summary returns a plain-text excerpt of an article of at most n runes
// (not counting the trailing ellipsis). Markup is stripped first.
func Summary(article string, n int) string {
	text := strings.Join(strings.Fields(plainText(article)), " ")
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	cut := runes[:n]
	if !unicode.IsSpace(runes[n]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + ellipsis
}

func plainText(article string) string {
	if !strings.ContainsAny(article, "<&") {
		return article
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article))
	if err != nil {
		return article
	}

	return doc.Text()
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}

	return -1
}
