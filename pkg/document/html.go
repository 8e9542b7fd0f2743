package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML is a Document backed by a parsed HTML page. Elements are indexed by
// their id attribute; the first element wins when ids repeat.
type HTML struct {
	mu         sync.Mutex
	root       *html.Node
	head       *html.Node
	elements   map[string]*html.Node
	containers map[string]*htmlContainer
	scripts    map[string]struct{}
}

var (
	_ Document   = (*HTML)(nil)
	_ ScriptHost = (*HTML)(nil)
)

// ParseHTML parses a full page. The parser synthesizes html/head/body when
// the input omits them.
func ParseHTML(r io.Reader) (*HTML, error) {
	if r == nil {
		return nil, errors.New("document: reader is nil")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse html: %w", err)
	}

	doc := &HTML{
		root:       root,
		elements:   make(map[string]*html.Node),
		containers: make(map[string]*htmlContainer),
		scripts:    make(map[string]struct{}),
	}
	doc.index(root)
	return doc, nil
}

// ParseHTMLString is a convenience wrapper around ParseHTML.
func ParseHTMLString(page string) (*HTML, error) {
	return ParseHTML(strings.NewReader(page))
}

func (d *HTML) index(n *html.Node) {
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Head && d.head == nil {
			d.head = n
		}
		if n.DataAtom == atom.Script {
			if src := attr(n, "src"); src != "" {
				d.scripts[src] = struct{}{}
			}
		}
		if id := strings.TrimSpace(attr(n, "id")); id != "" {
			if _, exists := d.elements[id]; !exists {
				d.elements[id] = n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		d.index(child)
	}
}

// ResolveContainer implements Document. Ids introduced by mounted fragments
// are not resolvable; only elements present in the parsed page are.
func (d *HTML) ResolveContainer(id string) (Container, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.containers[id]; ok {
		return c, true
	}
	node, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	c := &htmlContainer{page: d, id: id, node: node}
	d.containers[id] = c
	return c, true
}

// AddScript appends <script src> to the page head once per URL.
func (d *HTML) AddScript(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.scripts[src]; exists {
		return false
	}
	if d.head == nil {
		d.head = d.ensureHead()
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "src", Val: src}},
	}
	d.head.AppendChild(script)
	d.scripts[src] = struct{}{}
	return true
}

func (d *HTML) ensureHead() *html.Node {
	htmlNode := findElement(d.root, atom.Html)
	if htmlNode == nil {
		htmlNode = d.root
	}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	htmlNode.InsertBefore(head, htmlNode.FirstChild)
	return head
}

// Render serializes the page, including every mounted fragment.
func (d *HTML) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// Bytes serializes the page into memory.
func (d *HTML) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, fmt.Errorf("document: render html: %w", err)
	}
	return buf.Bytes(), nil
}

// IDs returns the resolvable element ids in document order.
func (d *HTML) IDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var ids []string
	seen := make(map[string]struct{}, len(d.elements))
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := strings.TrimSpace(attr(n, "id")); id != "" && d.elements[id] == n {
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					ids = append(ids, id)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(d.root)
	return ids
}

type htmlContainer struct {
	page    *HTML
	id      string
	node    *html.Node
	mounted []*html.Node
	active  bool
}

func (c *htmlContainer) ID() string { return c.id }

func (c *htmlContainer) Mount(fragment []byte) error {
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), c.node)
	if err != nil {
		return fmt.Errorf("document: parse fragment for %q: %w", c.id, err)
	}

	c.page.mu.Lock()
	defer c.page.mu.Unlock()

	c.detach()
	for _, n := range nodes {
		c.node.AppendChild(n)
	}
	c.mounted = nodes
	c.active = true
	return nil
}

func (c *htmlContainer) Unmount() {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	c.detach()
}

func (c *htmlContainer) detach() {
	for _, n := range c.mounted {
		if n.Parent == c.node {
			c.node.RemoveChild(n)
		}
	}
	c.mounted = nil
	c.active = false
}

func (c *htmlContainer) Mounted() bool {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return c.active
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}
