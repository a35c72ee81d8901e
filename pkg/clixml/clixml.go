// Package clixml reads the XML documents printed by `gluster --xml`.
//
// Queries are XPath expressions. A matched element that only carries text
// collapses to that text; any other element is handed back as a Document so
// that it can be queried further with relative paths.
package clixml

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"

	"github.com/antchfx/xmlquery"
)

// Paths of the result envelope common to every command.
const (
	OpRetPath    = "/cliOutput/opRet"
	OpErrnoPath  = "/cliOutput/opErrno"
	OpErrstrPath = "/cliOutput/opErrstr"
)

// Document is a parsed XML document or one of its elements.
type Document struct {
	node *xmlquery.Node
}

// Value is a single query match: either collapsed text or a structured node.
type Value struct {
	text   string
	node   *Document
	isText bool
}

// Text returns the text of a leaf match.
func (v Value) Text() (string, bool) {
	return v.text, v.isText
}

// Node returns the element of a match. Text matches also carry their
// element, if there is one.
func (v Value) Node() *Document {
	return v.node
}

// Envelope is the {opRet, opErrno, opErrstr} triple wrapping every command's
// output. OpRet is 0 on success.
type Envelope struct {
	OpRet    int
	OpErrno  int
	OpErrstr string
}

// Parse parses raw command output. Malformed XML is returned as an error.
func Parse(raw []byte) (*Document, error) {
	n, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return &Document{node: n}, nil
}

// Select returns every match of path in document order. It panics if path is
// not a valid XPath expression; paths are fixed by callers.
func (d *Document) Select(path string) []Value {
	nodes := xmlquery.Find(d.node, path)
	values := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, valueOf(n))
	}
	return values
}

// Field returns the text of the first match of path. The second return value
// is false when nothing matches or the match is not a text leaf.
func (d *Document) Field(path string) (string, bool) {
	n := xmlquery.FindOne(d.node, path)
	if n == nil {
		return "", false
	}
	return valueOf(n).Text()
}

// List returns the text of every text-leaf match of path, in order.
func (d *Document) List(path string) []string {
	out := []string{}
	for _, v := range d.Select(path) {
		if s, ok := v.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Nodes returns every element matching path.
func (d *Document) Nodes(path string) []*Document {
	out := []*Document{}
	for _, v := range d.Select(path) {
		if v.node != nil {
			out = append(out, v.node)
		}
	}
	return out
}

// Name is the element name, or "" for the document root.
func (d *Document) Name() string {
	if d.node.Type != xmlquery.ElementNode {
		return ""
	}
	return d.node.Data
}

// String renders the node back to XML.
func (d *Document) String() string {
	return d.node.OutputXML(true)
}

func valueOf(n *xmlquery.Node) Value {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		v := Value{text: strings.TrimSpace(n.Data), isText: true}
		if n.Parent != nil {
			v.node = &Document{node: n.Parent}
		}
		return v
	case xmlquery.AttributeNode:
		return Value{text: n.InnerText(), isText: true}
	}
	if hasElementChild(n) {
		return Value{node: &Document{node: n}}
	}
	return Value{text: strings.TrimSpace(n.InnerText()), node: &Document{node: n}, isText: true}
}

func hasElementChild(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// Envelope extracts the result envelope. A missing opRet is an error; a
// missing opErrno or opErrstr reads as 0 or "".
func (d *Document) Envelope() (Envelope, error) {
	var env Envelope

	ret, ok := d.Field(OpRetPath)
	if !ok {
		return env, errors.ErrMissingEnvelope
	}
	n, err := strconv.Atoi(ret)
	if err != nil {
		return env, err
	}
	env.OpRet = n

	if errno, ok := d.Field(OpErrnoPath); ok && errno != "" {
		n, err := strconv.Atoi(errno)
		if err != nil {
			return env, err
		}
		env.OpErrno = n
	}

	env.OpErrstr, _ = d.Field(OpErrstrPath)
	return env, nil
}
