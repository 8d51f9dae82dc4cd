package middleware

import "github.com/aretw0/turing/pkg/ports"

// Middleware allows wrapping a RunStore to add behavior.
type Middleware func(ports.RunStore) ports.RunStore

// Chain wraps store so that mws[0] sees a record first on Save and last on Load.
func Chain(store ports.RunStore, mws ...Middleware) ports.RunStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
