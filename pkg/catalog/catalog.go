package catalog

import (
	"github.com/binlog-hq/logq/pkg/query/ast"
	queryErrors "github.com/binlog-hq/logq/pkg/query/errors"
)

// CurrentVersion is the only catalog schema version understood.
const CurrentVersion = "1"

// Catalog is a validated set of named queries loaded from one source.
// Every query in a Catalog parsed successfully.
type Catalog struct {
	Name        string
	Version     string
	Description string

	// Source is the file path the catalog was loaded from, or the name
	// passed to LoadBytes.
	Source string

	// Queries in file order.
	Queries []*Query

	index map[string]*Query
}

// Query is a named expression together with its parsed tree.
type Query struct {
	Name        string
	Description string
	Expression  string
	Tags        []string
	Root        ast.Node

	// Location of the expression value in the source.
	Location queryErrors.Location
}

func newCatalog(name, version, description, source string) *Catalog {
	return &Catalog{
		Name:        name,
		Version:     version,
		Description: description,
		Source:      source,
		index:       make(map[string]*Query),
	}
}

func (c *Catalog) add(q *Query) {
	c.Queries = append(c.Queries, q)
	c.index[q.Name] = q
}

// Get returns the query with the given name.
func (c *Catalog) Get(name string) (*Query, bool) {
	if c == nil {
		return nil, false
	}
	q, ok := c.index[name]
	return q, ok
}

// Names returns the query names in file order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Queries))
	for i, q := range c.Queries {
		names[i] = q.Name
	}
	return names
}

// Len returns the number of queries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Queries)
}
