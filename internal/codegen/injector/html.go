package injector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
)

var errNoBodyEndTag = errors.New("no closing </body> tag")

// closingBodyQuery captures every end tag together with its name
const closingBodyQuery = `
(end_tag (tag_name) @name) @end
(erroneous_end_tag (erroneous_end_tag_name) @name) @end
`

// ScriptTag renders the element loading src
func ScriptTag(src string) string {
	return fmt.Sprintf(`<script src="%s"></script>`, src)
}

// InsertScriptTag inserts a script tag loading src immediately before the
// closing body tag of page, on its own line with the indentation of that tag.
// Existing tags are not looked for: inserting twice yields two tags.
func InsertScriptTag(page []byte, src string) ([]byte, error) {
	pos, err := closingBodyOffset(page)
	if err != nil {
		return nil, err
	}
	lineStart := bytes.LastIndexByte(page[:pos], '\n') + 1
	indent := page[lineStart:pos]
	if len(bytes.TrimSpace(indent)) != 0 {
		indent = nil
	}

	var b bytes.Buffer
	b.Grow(len(page) + len(src) + 32)
	b.Write(page[:pos])
	b.WriteString(ScriptTag(src))
	b.WriteByte('\n')
	b.Write(indent)
	b.Write(page[pos:])
	return b.Bytes(), nil
}

// closingBodyOffset locates the last </body> end tag with the html grammar.
// When the page does not parse into one, a plain case-insensitive search is
// used instead.
func closingBodyOffset(page []byte) (int, error) {
	if pos, ok := closingBodyNode(page); ok {
		return pos, nil
	}
	if pos := strings.LastIndex(strings.ToLower(string(page)), "</body>"); pos >= 0 {
		return pos, nil
	}
	return 0, errNoBodyEndTag
}

func closingBodyNode(page []byte) (int, bool) {
	lang := html.GetLanguage()
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, page)
	if err != nil {
		return 0, false
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(closingBodyQuery), lang)
	if err != nil {
		return 0, false
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	pos, found := 0, false
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		var name string
		var end *sitter.Node
		for _, capture := range match.Captures {
			switch query.CaptureNameForId(capture.Index) {
			case "name":
				name = capture.Node.Content(page)
			case "end":
				end = capture.Node
			}
		}
		if end != nil && strings.EqualFold(name, "body") && int(end.StartByte()) >= pos {
			pos, found = int(end.StartByte()), true
		}
	}
	return pos, found
}
