package configkit

// defaultSet holds the slot names present in a pristine evaluator. Names are
// only ever removed, once user data has overridden them.
type defaultSet struct {
	members map[string]struct{}
	order   []string
}

func newDefaultSet(names []string) *defaultSet {
	set := &defaultSet{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, ok := set.members[name]; ok {
			continue
		}
		set.members[name] = struct{}{}
		set.order = append(set.order, name)
	}
	return set
}

func (d *defaultSet) contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.members[name]
	return ok
}

// retract drops name from the set and reports whether it was a member.
func (d *defaultSet) retract(name string) bool {
	if !d.contains(name) {
		return false
	}
	delete(d.members, name)
	for i, member := range d.order {
		if member == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

func (d *defaultSet) names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
