// Copyright © 2019 One Concern

package postprocess

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oneconcern/refmat/pkg/postprocess/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Env carries the ambient state a postprocess function runs against
type Env struct {
	FS afero.Fs    // file system the inputs and output live on
	L  *zap.Logger // logger, may be nil
}

func (e Env) filesystem() afero.Fs {
	if e.FS != nil {
		return e.FS
	}
	return afero.NewOsFs()
}

func (e Env) logger() *zap.Logger {
	if e.L != nil {
		return e.L
	}
	return zap.NewNop()
}

// Func builds the final artifact at outfile from fetched input files
type Func func(ctx context.Context, env Env, inputs []string, outfile string, args ...string) error

// Registry resolves the function names used by references configurations
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry builds an empty registry
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func),
	}
}

// Register adds a named function to the registry
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("postprocess function requires a name")
	}
	if fn == nil {
		return fmt.Errorf("postprocess function %q requires an implementation", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[name]; exists {
		return status.ErrAlreadyRegistered.WrapMessage("function: %v", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister adds a named function to the registry or panics
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Resolve returns the function registered under name
func (r *Registry) Resolve(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, exists := r.funcs[name]
	if !exists {
		return nil, status.ErrNotRegistered.WrapMessage("function: %v", name)
	}
	return fn, nil
}

// Names lists the registered function names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default is the process wide registry the built-ins register against
func Default() *Registry {
	return defaultRegistry
}
