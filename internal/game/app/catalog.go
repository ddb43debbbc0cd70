package app

import (
	"maps"
	"slices"
)

// Catalog 是进程内可开的对局集合，按 game id 索引。
type Catalog struct {
	setups    map[string]*Setup
	defaultID string
}

func NewCatalog(setups ...*Setup) (*Catalog, error) {
	c := &Catalog{setups: make(map[string]*Setup, len(setups))}
	for _, s := range setups {
		if s == nil {
			continue
		}
		id := s.GameID()
		if _, dup := c.setups[id]; dup {
			return nil, ErrBadScenario.WithMsgf("对局 id 重复: %s", id)
		}
		c.setups[id] = s
		if c.defaultID == "" {
			c.defaultID = id
		}
	}
	return c, nil
}

func (c *Catalog) Lookup(gameID string) (*Setup, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.setups[gameID]
	return s, ok
}

// DefaultID 是第一个注册的对局。
func (c *Catalog) DefaultID() string {
	if c == nil {
		return ""
	}
	return c.defaultID
}

func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.setups))
}
