package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// Title returns the whitespace collapsed text of the document's <title>.
func Title(doc *goquery.Document) string {
	nodes := doc.Find("title").Nodes
	if len(nodes) == 0 {
		return ""
	}
	title := strings.TrimSpace(GetText(nodes[0]))
	return innerWhitespace.ReplaceAllString(title, " ")
}
