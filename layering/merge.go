package layering

// MergeTrees combines two document trees into a new tree. Keys only in b are
// added, maps present on both sides merge recursively, sequences present on
// both sides concatenate with a's elements first, and any other collision
// takes b's value. a and b are not modified.
func MergeTrees(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for key, value := range a {
		out[key] = value
	}
	for key, incoming := range b {
		existing, ok := out[key]
		if !ok {
			out[key] = incoming
			continue
		}
		out[key] = mergeValue(existing, incoming)
	}
	return out
}

// MergeAll folds trees left to right, so later trees take precedence.
func MergeAll(trees ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, tree := range trees {
		out = MergeTrees(out, tree)
	}
	return out
}

func mergeValue(existing, incoming any) any {
	if left, ok := existing.(map[string]any); ok {
		if right, ok := incoming.(map[string]any); ok {
			return MergeTrees(left, right)
		}
		return incoming
	}
	if left, ok := existing.([]any); ok {
		if right, ok := incoming.([]any); ok {
			joined := make([]any, 0, len(left)+len(right))
			joined = append(joined, left...)
			return append(joined, right...)
		}
	}
	return incoming
}
