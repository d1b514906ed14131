package injector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	errMissingStartScript = errors.New("package.json has no scripts.start")
	errNoRuntimeToken     = errors.New("start script does not invoke a node runtime")
)

// runtimes are the start script tokens that accept --require
var runtimes = map[string]bool{
	"node":        true,
	"nodemon":     true,
	"ts-node":     true,
	"ts-node-dev": true,
}

// InsertRequireFlag adds `--require <module>` to a start command, right after
// the runtime token, or after the last --require/-r flag that already
// follows it. The command is re-joined with single spaces.
func InsertRequireFlag(start, module string) (string, error) {
	tokens := strings.Fields(start)
	runtime := -1
	for i, tok := range tokens {
		if runtimes[path.Base(tok)] {
			runtime = i
			break
		}
	}
	if runtime < 0 {
		return "", fmt.Errorf("%w: %q", errNoRuntimeToken, start)
	}

	pos := runtime + 1
	for pos < len(tokens) {
		tok := tokens[pos]
		if (tok == "--require" || tok == "-r") && pos+1 < len(tokens) {
			pos += 2
			continue
		}
		if strings.HasPrefix(tok, "--require=") {
			pos++
			continue
		}
		break
	}

	out := make([]string, 0, len(tokens)+2)
	out = append(out, tokens[:pos]...)
	out = append(out, "--require", module)
	out = append(out, tokens[pos:]...)
	return strings.Join(out, " "), nil
}

// StartScript extracts scripts.start from a package.json document
func StartScript(manifest []byte) (string, error) {
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return "", fmt.Errorf("invalid package.json: %w", err)
	}
	start, ok := pkg.Scripts["start"]
	if !ok || strings.TrimSpace(start) == "" {
		return "", errMissingStartScript
	}
	return start, nil
}

// RewriteStartScript replaces the value of scripts.start in manifest. Only
// the string literal changes, so key order and formatting survive.
func RewriteStartScript(manifest []byte, oldStart, newStart string) ([]byte, error) {
	newLit, err := jsonString(newStart)
	if err != nil {
		return nil, err
	}
	from, to, err := startScriptSpan(manifest)
	if err != nil {
		return nil, err
	}
	var current string
	if err := json.Unmarshal(manifest[from:to], &current); err != nil || current != oldStart {
		return nil, fmt.Errorf("cannot locate start script %q in package.json", oldStart)
	}

	var b bytes.Buffer
	b.Write(manifest[:from])
	b.WriteString(newLit)
	b.Write(manifest[to:])
	return b.Bytes(), nil
}

type jsonFrame struct {
	object  bool
	wantKey bool
	key     string
}

// startScriptSpan returns the byte range of the string literal stored at
// the top-level scripts.start key. Keys with the same name elsewhere in the
// manifest are skipped.
func startScriptSpan(manifest []byte) (int, int, error) {
	dec := json.NewDecoder(bytes.NewReader(manifest))
	var stack []jsonFrame
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].wantKey = true
		}
	}
	for {
		before := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse package.json: %w", err)
		}

		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].wantKey {
			if d, ok := tok.(json.Delim); ok && d == '}' {
				stack = stack[:n-1]
				valueDone()
				continue
			}
			key, _ := tok.(string)
			stack[n-1].key = key
			stack[n-1].wantKey = false
			continue
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				stack = append(stack, jsonFrame{object: true, wantKey: true})
			case '[':
				stack = append(stack, jsonFrame{})
			default:
				stack = stack[:len(stack)-1]
				valueDone()
			}
			continue
		}

		if _, ok := tok.(string); ok && len(stack) == 2 &&
			stack[0].object && stack[0].key == "scripts" &&
			stack[1].object && stack[1].key == "start" {
			from := before + bytes.IndexByte(manifest[before:], '"')
			return from, int(dec.InputOffset()), nil
		}
		valueDone()
	}
	return 0, 0, errMissingStartScript
}

func jsonString(s string) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
