package configkit

import "github.com/goliatone/go-configkit/internal/hydrate"

// UnmappedSlotsError is returned by strict hydration when store slots have
// no matching struct field. Slots holds their references.
type UnmappedSlotsError = hydrate.UnmappedError

// HydrateOption configures Hydrate.
type HydrateOption func(*hydrateConfig)

type hydrateConfig struct {
	strict    bool
	useNumber bool
	preHooks  []hydrate.PreHook
	postHooks []func(storeID string, value any) error
	unmapped  func(refs []string)
}

// HydrateStrict fails with an UnmappedSlotsError when a slot has no matching
// struct field.
func HydrateStrict() HydrateOption {
	return func(cfg *hydrateConfig) {
		cfg.strict = true
	}
}

// HydrateUseNumber decodes numbers into interface fields as json.Number.
func HydrateUseNumber() HydrateOption {
	return func(cfg *hydrateConfig) {
		cfg.useNumber = true
	}
}

// HydratePreHook rewrites the decoded tree before it is mapped onto the
// struct.
func HydratePreHook(hook func(storeID string, tree map[string]any) (map[string]any, error)) HydrateOption {
	return func(cfg *hydrateConfig) {
		if hook == nil {
			return
		}
		cfg.preHooks = append(cfg.preHooks, func(src hydrate.Source, tree map[string]any) (map[string]any, error) {
			return hook(src.StoreID, tree)
		})
	}
}

// HydratePostHook runs after mapping with a pointer to the decoded struct.
func HydratePostHook(hook func(storeID string, value any) error) HydrateOption {
	return func(cfg *hydrateConfig) {
		if hook != nil {
			cfg.postHooks = append(cfg.postHooks, hook)
		}
	}
}

// HydrateUnmapped receives the references of slots no struct field holds.
// It is not called when every slot is mapped.
func HydrateUnmapped(fn func(refs []string)) HydrateOption {
	return func(cfg *hydrateConfig) {
		cfg.unmapped = fn
	}
}

type validator interface {
	Validate() error
}

// Hydrate decodes the store with mode and maps the tree onto T using its
// json tags. When *T has a Validate method it runs after the post hooks.
func Hydrate[T any](s *Store, mode Mode, opts ...HydrateOption) (T, error) {
	var zero T
	if mode == "" {
		mode = ModeAuto
	}
	tree, err := s.Tree(mode)
	if err != nil {
		return zero, err
	}

	cfg := hydrateConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	decoderOpts := make([]hydrate.DecoderOption[T], 0, len(cfg.preHooks)+len(cfg.postHooks)+3)
	for _, hook := range cfg.preHooks {
		decoderOpts = append(decoderOpts, hydrate.WithPreHook[T](hook))
	}
	for _, hook := range cfg.postHooks {
		hook := hook
		decoderOpts = append(decoderOpts, hydrate.WithPostHook[T](func(src hydrate.Source, value *T) error {
			return hook(src.StoreID, value)
		}))
	}
	decoderOpts = append(decoderOpts, hydrate.WithPostHook[T](func(_ hydrate.Source, value *T) error {
		if v, ok := any(value).(validator); ok {
			return v.Validate()
		}
		return nil
	}))
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithStrict[T]())
	}
	if cfg.useNumber {
		decoderOpts = append(decoderOpts, hydrate.WithUseNumber[T]())
	}

	result, err := hydrate.NewDecoder(decoderOpts...).Decode(hydrate.Source{
		StoreID: s.ID(),
		Mode:    string(mode),
	}, tree)
	if cfg.unmapped != nil && len(result.Unmapped) > 0 {
		cfg.unmapped(result.Unmapped)
	}
	if err != nil {
		return zero, err
	}
	return result.Value, nil
}
