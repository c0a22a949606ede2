package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// xmlNode is a generic element tree
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

var pointElements = map[string]bool{
	"measurement": true,
	"datapoint":   true,
	"point":       true,
}

// parseXML reads points from measurement, datapoint or point elements. When
// none exist, any element with a frequency attribute is taken as a point.
func parseXML(r io.Reader) (models.Sweep, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
	}

	var nodes []*xmlNode
	collect(&root, func(n *xmlNode) bool {
		return pointElements[strings.ToLower(n.XMLName.Local)]
	}, &nodes)

	if len(nodes) == 0 {
		collect(&root, func(n *xmlNode) bool {
			_, ok := n.attr("frequency")
			return ok
		}, &nodes)
		return toSweep(nodes, false), nil
	}

	return toSweep(nodes, true), nil
}

// collect appends matching nodes in document order without descending into a
// match.
func collect(n *xmlNode, match func(*xmlNode) bool, out *[]*xmlNode) {
	if match(n) {
		*out = append(*out, n)
		return
	}
	for i := range n.Children {
		collect(&n.Children[i], match, out)
	}
}

func toSweep(nodes []*xmlNode, readChildren bool) models.Sweep {
	var sweep models.Sweep
	for _, n := range nodes {
		lookup := n.attr
		if readChildren {
			lookup = n.value
		}

		freq, _ := lookup("frequency")
		mag, ok := lookup("magnitude")
		if !ok {
			mag, _ = lookup("response")
		}
		phase, _ := lookup("phase")

		if p, ok := newPoint(freq, mag, phase); ok {
			sweep = append(sweep, p)
		}
	}
	return sweep
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name && a.Value != "" {
			return a.Value, true
		}
	}
	return "", false
}

// value reads a field from an attribute or, failing that, from the first
// descendant element of the same name.
func (n *xmlNode) value(name string) (string, bool) {
	if v, ok := n.attr(name); ok {
		return v, true
	}
	if c := n.find(name); c != nil && strings.TrimSpace(c.Content) != "" {
		return c.Content, true
	}
	return "", false
}

func (n *xmlNode) find(name string) *xmlNode {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}
