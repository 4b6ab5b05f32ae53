package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML returns the headline and article body of a saved web page.
// Scripts and styles are dropped; the first <article> is preferred over <body>.
func extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("extract HTML: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var parts []string
	headline := collapse(root.Find("h1").First().Text())
	if headline == "" {
		headline = collapse(doc.Find("head title").First().Text())
		if headline != "" {
			parts = append(parts, headline)
		}
	}
	if body := collapse(root.Text()); body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n"), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
