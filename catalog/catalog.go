// Package catalog holds the ordered label -> source mapping that defines one
// run. Iteration order is insertion order; it fixes each label's style index
// and the legend order.
package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/prcurve/pkg/errors"
)

// FamilySeparator splits a label into family and variant.
const FamilySeparator = "_"

// FamilyOf returns the part of label before the first separator, e.g.
// "KNN_GFD" -> "KNN". A label without a separator is its own family.
func FamilyOf(label string) string {
	family, _, _ := strings.Cut(label, FamilySeparator)
	return family
}

// Entry is one curve source of a catalog.
type Entry struct {
	Label string
	Path  string
}

// Family returns FamilyOf(e.Label).
func (e Entry) Family() string { return FamilyOf(e.Label) }

// Catalog is an ordered set of entries with unique labels. The zero value is
// an empty catalog ready to use.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New creates a catalog from entries in the given order.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{}
	for _, e := range entries {
		if err := c.Add(e.Label, e.Path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends label at the end of the catalog.
func (c *Catalog) Add(label, path string) error {
	if label == "" {
		return errors.NewValidationError("catalog.label", "must not be empty", path)
	}
	if path == "" {
		return errors.NewValidationError("catalog."+label, "path must not be empty", path)
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, dup := c.index[label]; dup {
		return errors.NewValidationError("catalog."+label, "duplicate label", path)
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, Entry{Label: label, Path: path})
	return nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entry returns the i-th entry.
func (c *Catalog) Entry(i int) Entry { return c.entries[i] }

// Entries returns a copy of the entries in order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Labels returns the labels in order.
func (c *Catalog) Labels() []string {
	labels := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		labels = append(labels, e.Label)
	}
	return labels
}

// Lookup returns the entry for label.
func (c *Catalog) Lookup(label string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Families returns the distinct families in first-appearance order.
func (c *Catalog) Families() []string {
	seen := make(map[string]bool)
	var families []string
	for _, e := range c.Entries() {
		f := e.Family()
		if !seen[f] {
			seen[f] = true
			families = append(families, f)
		}
	}
	return families
}

// Resolve returns a copy whose relative paths are joined onto baseDir.
func (c *Catalog) Resolve(baseDir string) *Catalog {
	out := &Catalog{}
	for _, e := range c.Entries() {
		p := e.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		// Labels were unique in c, so Add cannot fail.
		_ = out.Add(e.Label, p)
	}
	return out
}

// UnmarshalYAML reads a mapping of label: path, keeping document order.
func (c *Catalog) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: catalog must be a mapping of label: path", node.Line)
	}
	fresh := Catalog{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: path for %q must be a string", value.Line, key.Value)
		}
		if err := fresh.Add(key.Value, value.Value); err != nil {
			return errors.Wrapf(err, "line %d", key.Line)
		}
	}
	*c = fresh
	return nil
}

// MarshalYAML writes the catalog as an ordered mapping.
func (c Catalog) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range c.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Label},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Path},
		)
	}
	return node, nil
}

// Discover expands a doublestar glob (e.g. "curve/**/*_*.csv") into entries
// labelled by file stem. Matches are sorted by path so the order is stable
// across runs and platforms. Two files with the same stem are an error.
func Discover(pattern string) ([]Entry, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.NewValidationError("discover", err.Error(), pattern)
	}
	sort.Strings(matches)

	seen := make(map[string]string, len(matches))
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		label := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		if prev, dup := seen[label]; dup {
			return nil, errors.NewValidationError("discover",
				fmt.Sprintf("label %q matches both %s and %s", label, prev, m), pattern)
		}
		seen[label] = m
		entries = append(entries, Entry{Label: label, Path: m})
	}
	return entries, nil
}
