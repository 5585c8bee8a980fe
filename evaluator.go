package configkit

import "time"

// Evaluator is the expression evaluator backing a store. *tcl.Interp is the
// default implementation.
type Evaluator interface {
	// Eval runs a script and returns its result.
	Eval(script string) (string, error)
	// SplitList parses a list literal into its elements.
	SplitList(list string) ([]string, error)
	// Substitute performs one pass of reference substitution over text.
	Substitute(text string) (string, error)
}

// observed wraps the store evaluator so every call made for op and slot is
// timed and reported to the store logger.
type observed struct {
	store *Store
	op    string
	slot  string
}

func (s *Store) observe(op, slot string) observed {
	return observed{store: s, op: op, slot: slot}
}

func (o observed) Eval(script string) (string, error) {
	start := time.Now()
	out, err := o.store.ev.Eval(script)
	o.report(script, start, err)
	if err != nil {
		return "", wrapEvaluatorError(o.op, o.slot, script, err)
	}
	return out, nil
}

func (o observed) SplitList(list string) ([]string, error) {
	elems, err := o.store.ev.SplitList(list)
	if err != nil {
		return nil, wrapEvaluatorError(o.op, o.slot, list, err)
	}
	return elems, nil
}

func (o observed) Substitute(text string) (string, error) {
	start := time.Now()
	out, err := o.store.ev.Substitute(text)
	o.report(text, start, err)
	if err != nil {
		return "", wrapEvaluatorError(o.op, o.slot, text, err)
	}
	return out, nil
}

func (o observed) report(script string, start time.Time, err error) {
	o.store.logger.LogEvaluation(EvalLogEvent{
		Op:       o.op,
		Slot:     o.slot,
		Script:   script,
		Duration: time.Since(start),
		Err:      err,
	})
}
