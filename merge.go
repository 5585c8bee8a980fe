package configkit

import "github.com/goliatone/go-configkit/layering"

// MergeTrees combines a and b with maps merged recursively, sequences
// concatenated and b winning every other collision.
func MergeTrees(a, b map[string]any) map[string]any {
	return layering.MergeTrees(a, b)
}

// MergeAll folds trees left to right with MergeTrees.
func MergeAll(trees ...map[string]any) map[string]any {
	return layering.MergeAll(trees...)
}
