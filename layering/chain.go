package layering

import "slices"

// Source is one named document taking part in a merge. Sources with a higher
// Priority override those with a lower one.
type Source struct {
	Name     string
	Priority int
	Tree     map[string]any
}

// Chain orders sources from weakest to strongest.
type Chain struct {
	ordered []Source
}

// NewChain drops sources without a tree, keeps the last source seen for each
// name and orders the rest by ascending priority. Peers keep their relative
// order.
func NewChain(sources ...Source) Chain {
	index := map[string]int{}
	filtered := make([]Source, 0, len(sources))
	for _, source := range sources {
		if source.Tree == nil {
			continue
		}
		if source.Name != "" {
			if at, exists := index[source.Name]; exists {
				filtered[at] = source
				continue
			}
			index[source.Name] = len(filtered)
		}
		filtered = append(filtered, source)
	}

	slices.SortStableFunc(filtered, func(a, b Source) int {
		switch {
		case a.Priority < b.Priority:
			return -1
		case a.Priority > b.Priority:
			return 1
		default:
			return 0
		}
	})
	return Chain{ordered: filtered}
}

// Ordered returns the sources from weakest (index 0) to strongest.
func (c Chain) Ordered() []Source {
	out := make([]Source, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Names returns the source names in merge order.
func (c Chain) Names() []string {
	out := make([]string, len(c.ordered))
	for i, source := range c.ordered {
		out[i] = source.Name
	}
	return out
}

// Merge folds the chain with MergeTrees.
func (c Chain) Merge() map[string]any {
	trees := make([]map[string]any, len(c.ordered))
	for i, source := range c.ordered {
		trees[i] = source.Tree
	}
	return MergeAll(trees...)
}
