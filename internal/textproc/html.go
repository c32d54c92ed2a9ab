package textproc

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

var (
	imageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// HTMLConverter converts HTML email bodies to plain text. Conversion is a
// two-stage strategy: the markdown converter is the primary path, and a
// lenient tag-stripping pass is the named fallback when it fails.
type HTMLConverter struct {
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to text converter
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{
		converter: md.NewConverter("", true, nil),
	}
}

// ToText converts HTML content to clean text. Link and image targets are
// dropped, keeping only visible text. It never fails; unconvertible input
// goes through the fallback stripper.
func (c *HTMLConverter) ToText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	text, err := c.converter.ConvertString(htmlContent)
	if err != nil {
		return StripTags(htmlContent)
	}

	text = imageRe.ReplaceAllString(text, " ")
	text = linkRe.ReplaceAllString(text, "$1")
	text = wsRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// StripTags is the fallback converter: it walks the parsed node tree and
// collects text nodes, skipping script and style elements. If even parsing
// fails the markup is removed with a regex.
func StripTags(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		text := tagRe.ReplaceAllString(htmlContent, " ")
		return strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.TrimSpace(wsRe.ReplaceAllString(sb.String(), " "))
}
