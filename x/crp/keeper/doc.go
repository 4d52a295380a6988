// Package keeper implements the crp module keeper.
//
// A configurable rights pool wraps one weighted pool from the bpool module
// and acts as its only controller. The pool's creator fixes a set of rights
// at construction time; every controller operation checks the caller, then
// the right it needs, and then runs all-or-nothing under a per-pool lock.
//
// # Weights
//
// UpdateWeight changes one weight immediately and settles the difference in
// tokens and shares with the controller. UpdateWeightsGradually records a
// linear schedule that PokeWeights (or the end blocker, when AutoPokeWeights
// is set) applies at the current block height.
//
// # Tokens
//
// CommitAddToken announces a token; ApplyAddToken binds it once the pool's
// time lock has passed. RemoveToken unbinds a token and burns the
// controller's matching shares.
//
// # Elastic tokens
//
// For pools created as elastic, ResyncWeight scales a token's weight after
// its supply rebased so that its price inside the pool stays put.
// SafeResync never fails: it falls back to a plain gulp and reports why.
package keeper
