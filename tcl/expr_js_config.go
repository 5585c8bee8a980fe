package tcl

type jsEngineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSOption configures the JavaScript engine.
type JSOption func(*jsEngineConfig)

// JSWithProgramCache applies a ProgramCache to the JavaScript engine.
func JSWithProgramCache(cache ProgramCache) JSOption {
	return func(cfg *jsEngineConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry replaces the default math function registry.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSOption {
	return func(cfg *jsEngineConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSOptions(opts []JSOption) jsEngineConfig {
	cfg := jsEngineConfig{registry: MathFunctions()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
