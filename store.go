package configkit

import (
	"context"
	"strings"

	"github.com/goliatone/go-configkit/pkg/activity"
	"github.com/goliatone/go-configkit/tcl"
	"github.com/google/uuid"
)

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	evaluator Evaluator
	logger    Logger
	hooks     activity.Hooks
	activity  activity.Config
	tagless   bool
}

// WithEvaluator backs the store with ev instead of a fresh tcl interpreter.
// ev should be pristine: its variables at construction become the defaults.
func WithEvaluator(ev Evaluator) StoreOption {
	return func(cfg *storeConfig) {
		if ev != nil {
			cfg.evaluator = ev
		}
	}
}

// WithActivityHooks attaches hooks notified about store mutations.
func WithActivityHooks(hooks ...activity.ActivityHook) StoreOption {
	return func(cfg *storeConfig) {
		cfg.hooks = append(cfg.hooks, hooks...)
	}
}

// WithActivityConfig overrides the activity emission defaults.
func WithActivityConfig(config activity.Config) StoreOption {
	return func(cfg *storeConfig) {
		cfg.activity = config
	}
}

// WithoutTypeTags disables the type side-channel. Decode then relies on the
// selected mode for every slot.
func WithoutTypeTags() StoreOption {
	return func(cfg *storeConfig) {
		cfg.tagless = true
	}
}

// Store is a flat variable namespace held by an evaluator together with the
// set of default slots that existed before any user data was written. A Store
// is not safe for concurrent use.
type Store struct {
	id       string
	ev       Evaluator
	defaults *defaultSet
	logger   Logger
	emitter  *activity.Emitter
	tagless  bool
}

// NewStore constructs a store and snapshots the evaluator's pristine
// variables as the default-slot set.
func NewStore(opts ...StoreOption) (*Store, error) {
	cfg := storeConfig{
		logger:   noopLogger{},
		activity: activity.Config{Enabled: true, Channel: activity.DefaultChannel},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		cfg.evaluator = tcl.New()
	}

	s := &Store{
		id:      uuid.NewString(),
		ev:      cfg.evaluator,
		logger:  cfg.logger,
		emitter: activity.NewEmitter(cfg.hooks, cfg.activity),
		tagless: cfg.tagless,
	}
	names, err := s.varNames("snapshot")
	if err != nil {
		return nil, err
	}
	s.defaults = newDefaultSet(names)
	return s, nil
}

// ID returns the store identifier used in activity events and logs.
func (s *Store) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Evaluator returns the evaluator backing the store.
func (s *Store) Evaluator() Evaluator {
	if s == nil {
		return nil
	}
	return s.ev
}

// Defaults returns the default slot names that have not been overridden.
func (s *Store) Defaults() []string {
	if s == nil {
		return nil
	}
	return s.defaults.names()
}

// IsDefault reports whether name is a pristine default slot.
func (s *Store) IsDefault(name string) bool {
	if s == nil {
		return false
	}
	return s.defaults.contains(name)
}

// Tagged reports whether the store records declared kinds.
func (s *Store) Tagged() bool {
	return s != nil && !s.tagless
}

// Eval runs script against the store. Writes made this way bypass default
// eviction and the type side-channel.
func (s *Store) Eval(script string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return s.observe("eval", "").Eval(script)
}

func (s *Store) ready() error {
	if s == nil || s.ev == nil {
		return ErrNoEvaluator
	}
	return nil
}

func (s *Store) varNames(op string) ([]string, error) {
	ev := s.observe(op, "")
	out, err := ev.Eval("info vars")
	if err != nil {
		return nil, err
	}
	return ev.SplitList(out)
}

// userNames lists live slot names, skipping defaults and the side-channel.
func (s *Store) userNames(op string) ([]string, error) {
	names, err := s.varNames(op)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, name := range names {
		if name == typesArray || s.defaults.contains(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func (s *Store) isArray(op, name string) (bool, error) {
	out, err := s.observe(op, name).Eval("array exists " + word(name))
	if err != nil {
		return false, err
	}
	return out == "1", nil
}

func (s *Store) exists(op, ref string) (bool, error) {
	out, err := s.observe(op, ref).Eval("info exists " + word(ref))
	if err != nil {
		return false, err
	}
	return out == "1", nil
}

func (s *Store) cellNames(op, name string) ([]string, error) {
	ev := s.observe(op, name)
	out, err := ev.Eval("array names " + word(name))
	if err != nil {
		return nil, err
	}
	return ev.SplitList(out)
}

func (s *Store) read(op, ref string) (string, error) {
	return s.observe(op, ref).Eval("set " + word(ref))
}

// write assigns literal, a script word, to ref.
func (s *Store) write(op, ref, literal string) error {
	_, err := s.observe(op, ref).Eval("set " + word(ref) + " " + literal)
	return err
}

func (s *Store) unset(op, ref string) error {
	_, err := s.observe(op, ref).Eval("unset -nocomplain " + word(ref))
	return err
}

// evict removes a default slot so user data can take its place.
func (s *Store) evict(name string) error {
	if !s.defaults.contains(name) {
		return nil
	}
	if err := s.unset("evict", name); err != nil {
		return err
	}
	s.defaults.retract(name)
	s.emit(activity.DefaultEvicted(s.id, name))
	return nil
}

func (s *Store) emit(event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger.LogEvaluation(EvalLogEvent{Op: "activity", Slot: event.Target(), Err: err})
	}
}

// slotRef addresses a scalar slot (empty path) or one composite cell.
func slotRef(name string, path []string) string {
	if len(path) == 0 {
		return name
	}
	return name + "(" + strings.Join(path, indexSeparator) + ")"
}

const indexSeparator = ","

func word(s string) string {
	return tcl.QuoteElement(s)
}
