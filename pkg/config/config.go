package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/framegrid/pkg/errors"
)

// Defaults applied to descriptions that leave the values out.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultBorder = 6

	// MaxViewport bounds the viewport size, border thickness and natural
	// frame sizes.
	MaxViewport = 1 << 16
)

// Document is a complete frameset description.
type Document struct {
	Name   string `toml:"name,omitempty" json:"name,omitempty"`
	Width  int    `toml:"width,omitempty" json:"width,omitempty"`
	Height int    `toml:"height,omitempty" json:"height,omitempty"`
	Root   Node   `toml:"root" json:"root"`
}

// Node describes a container or a leaf. Pointer fields distinguish "unset,
// inherit from the parent" from an explicit value.
type Node struct {
	Name        string `toml:"name,omitempty" json:"name,omitempty"`
	Rows        string `toml:"rows,omitempty" json:"rows,omitempty"`
	Cols        string `toml:"cols,omitempty" json:"cols,omitempty"`
	Border      *int   `toml:"border" json:"border,omitempty"`
	FrameBorder *bool  `toml:"frameborder" json:"frameborder,omitempty"`
	BorderColor string `toml:"bordercolor,omitempty" json:"bordercolor,omitempty"`
	NoResize    bool   `toml:"noresize,omitempty" json:"noresize,omitempty"`
	Flatten     bool   `toml:"flatten,omitempty" json:"flatten,omitempty"`

	NaturalWidth  int `toml:"natural_width,omitempty" json:"natural_width,omitempty"`
	NaturalHeight int `toml:"natural_height,omitempty" json:"natural_height,omitempty"`

	Children []Node `toml:"children,omitempty" json:"children,omitempty"`
}

// IsContainer reports whether n describes a grid container.
func (n *Node) IsContainer() bool {
	return n.Rows != "" || n.Cols != "" || len(n.Children) > 0
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].Count()
	}
	return total
}

// Parse decodes a TOML description, fills in defaults and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode frameset description")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return finish(&doc)
}

// ParseJSON decodes a JSON description with the same field names as the
// TOML form.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode frameset description")
	}
	return finish(&doc)
}

// Load reads and parses the description at path. Files ending in .json are
// decoded with ParseJSON, everything else as TOML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "frameset description %s", path)
		}
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return Parse(data)
}

func finish(doc *Document) (*Document, error) {
	doc.SetDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetDefaults fills in a missing viewport size.
func (d *Document) SetDefaults() {
	if d.Width == 0 {
		d.Width = DefaultWidth
	}
	if d.Height == 0 {
		d.Height = DefaultHeight
	}
}

// Validate checks sizes, names, colors and track lists of the whole tree.
func (d *Document) Validate() error {
	if d.Width < 0 || d.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport %dx%d cannot be negative", d.Width, d.Height)
	}
	if d.Width > MaxViewport || d.Height > MaxViewport {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport %dx%d exceeds %d", d.Width, d.Height, MaxViewport)
	}
	if err := errors.ValidateName(d.Name); err != nil {
		return err
	}
	return validateNode(&d.Root, "root")
}

func validateNode(n *Node, path string) error {
	if err := errors.ValidateName(n.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if err := errors.ValidateColor(n.BorderColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if n.Border != nil && (*n.Border < 0 || *n.Border > MaxViewport) {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: border %d out of range", path, *n.Border)
	}
	if n.NaturalWidth < 0 || n.NaturalHeight < 0 || n.NaturalWidth > MaxViewport || n.NaturalHeight > MaxViewport {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: natural size %dx%d out of range", path, n.NaturalWidth, n.NaturalHeight)
	}
	if _, err := ParseLengths(n.Rows); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: rows", path)
	}
	if _, err := ParseLengths(n.Cols); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: cols", path)
	}
	for i := range n.Children {
		if err := validateNode(&n.Children[i], childPath(path, i, n.Children[i].Name)); err != nil {
			return err
		}
	}
	return nil
}

func childPath(parent string, i int, name string) string {
	if name != "" {
		return parent + "/" + name
	}
	return parent + "/" + strconv.Itoa(i)
}

// Encode writes the description as TOML.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
