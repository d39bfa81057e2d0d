package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrCaseNotFound = errors.New("case not found")

// Catalog indexes cases by id.
type Catalog struct {
	cases map[string]Case
}

func NewCatalog(cases []Case) *Catalog {
	byID := make(map[string]Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	return &Catalog{cases: byID}
}

func (c *Catalog) Get(id string) (Case, error) {
	cs, ok := c.cases[id]
	if !ok {
		return Case{}, fmt.Errorf("%w: %s", ErrCaseNotFound, id)
	}
	return cs, nil
}

// IDs returns the case ids in lexical order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.cases))
	for id := range c.cases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the cases ordered by id.
func (c *Catalog) List() []Case {
	ids := c.IDs()
	out := make([]Case, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.cases[id])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.cases)
}
