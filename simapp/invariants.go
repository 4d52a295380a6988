package simapp

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type invariantRoute struct {
	module string
	route  string
	fn     sdk.Invariant
}

// InvariantRegistry collects module invariants and runs them on demand.
type InvariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*InvariantRegistry)(nil)

// NewInvariantRegistry returns an empty registry.
func NewInvariantRegistry() *InvariantRegistry {
	return &InvariantRegistry{}
}

// RegisterRoute implements sdk.InvariantRegistry.
func (r *InvariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, fn: invar})
}

// Check runs every invariant and returns the first broken one.
func (r *InvariantRegistry) Check(ctx sdk.Context) error {
	for _, ir := range r.routes {
		if msg, broken := ir.fn(ctx); broken {
			return fmt.Errorf("invariant %s/%s broken: %s", ir.module, ir.route, msg)
		}
	}
	return nil
}
