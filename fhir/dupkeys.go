package fhir

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

// dupFrame tracks one open container while streaming tokens.
type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	segment      string
	index        int
}

// duplicateKey streams data and returns the JSON pointer of the first object
// member whose key repeats within its object. Unmarshal keeps the last value
// of a repeated key silently, so library documents are checked first.
func duplicateKey(data []byte) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []dupFrame

	// value marks the end of a scalar or container at the current position.
	value := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		switch top.kind {
		case kindObject:
			top.expectingKey = true
		case kindArray:
			top.index++
		}
	}
	pointer := func(last string) string {
		b := &strings.Builder{}
		for _, f := range stack[1:] {
			b.WriteByte('/')
			b.WriteString(f.segment)
		}
		b.WriteByte('/')
		b.WriteString(last)
		return b.String()
	}
	segment := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := stack[len(stack)-1]
		if top.kind == kindArray {
			return strconv.Itoa(top.index)
		}
		return top.segment
	}

	var key string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				seg := key
				if len(stack) > 0 && stack[len(stack)-1].kind == kindArray {
					seg = segment()
				}
				f := dupFrame{kind: kindArray, segment: seg}
				if v == '{' {
					f.kind = kindObject
					f.keys = map[string]struct{}{}
					f.expectingKey = true
				}
				stack = append(stack, f)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				value()
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, ok := top.keys[v]; ok {
						return pointer(escapePointer(v)), true, nil
					}
					top.keys[v] = struct{}{}
					top.expectingKey = false
					key = escapePointer(v)
					continue
				}
			}
			value()
		default:
			value()
		}
	}
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
