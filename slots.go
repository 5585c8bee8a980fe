package configkit

// Slot is one user slot as held by the store: a scalar name or a
// name(index) cell reference, its declared kind and its raw literal.
type Slot struct {
	Ref     string
	Kind    Kind
	Literal string
}

// Slots lists the user slots in store order. Default slots and the type
// side-channel are skipped.
func (s *Store) Slots() ([]Slot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	slots, _, err := s.slots("slots")
	return slots, err
}

// slots also reports whether the store carries a type side-channel.
func (s *Store) slots(op string) ([]Slot, bool, error) {
	refs, err := s.userRefs(op)
	if err != nil {
		return nil, false, err
	}
	kinds, err := s.kinds(op)
	if err != nil {
		return nil, false, err
	}
	out := make([]Slot, 0, len(refs))
	for _, ref := range refs {
		value, err := s.read(op, ref)
		if err != nil {
			return nil, false, err
		}
		out = append(out, Slot{Ref: ref, Kind: kinds[ref], Literal: value})
	}
	return out, kinds != nil, nil
}
