package biller

import "fmt"

// Collection is an ordered, name-indexed set of billers. Order is the
// configured cascade fallback order; duplicates by name collapse to the
// first occurrence.
type Collection struct {
	ordered []Biller
	byName  map[string]Biller
}

// BuildCollection accepts biller names or Biller instances, in cascade
// order. Unrecognized names fail with ErrUnknownBillerName.
func BuildCollection(entries ...any) (*Collection, error) {
	c := &Collection{byName: make(map[string]Biller)}
	for _, e := range entries {
		var b Biller
		switch v := e.(type) {
		case Biller:
			b = v
		case string:
			resolved, err := ByName(v)
			if err != nil {
				return nil, err
			}
			b = resolved
		default:
			return nil, fmt.Errorf("biller entry %T: %w", e, ErrUnknownBillerName)
		}
		c.add(b)
	}
	return c, nil
}

// BuildCollectionFromNames is the common snapshot-restore path.
func BuildCollectionFromNames(names []string) (*Collection, error) {
	c := &Collection{byName: make(map[string]Biller)}
	for _, name := range names {
		b, err := ByName(name)
		if err != nil {
			return nil, err
		}
		c.add(b)
	}
	return c, nil
}

func (c *Collection) add(b Biller) {
	if _, ok := c.byName[b.Name()]; ok {
		return
	}
	c.ordered = append(c.ordered, b)
	c.byName[b.Name()] = b
}

func (c *Collection) Count() int { return len(c.ordered) }

func (c *Collection) IsEmpty() bool { return len(c.ordered) == 0 }

// At returns the biller at the given cascade position, nil when out of range.
func (c *Collection) At(pos int) Biller {
	if pos < 0 || pos >= len(c.ordered) {
		return nil
	}
	return c.ordered[pos]
}

// Get returns the biller registered under name, nil when absent.
func (c *Collection) Get(name string) Biller { return c.byName[name] }

func (c *Collection) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns the cascade order as names.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.ordered))
	for _, b := range c.ordered {
		names = append(names, b.Name())
	}
	return names
}

// Filter returns a new collection keeping billers for which keep returns
// true, preserving order. The receiver is not mutated.
func (c *Collection) Filter(keep func(Biller) bool) *Collection {
	out := &Collection{byName: make(map[string]Biller)}
	for _, b := range c.ordered {
		if keep(b) {
			out.add(b)
		}
	}
	return out
}
