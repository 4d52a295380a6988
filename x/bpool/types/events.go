package types

// Event types emitted by the bpool module
const (
	EventTypePoolCreated = "bpool_created"
	EventTypeBind        = "bpool_bind"
	EventTypeRebind      = "bpool_rebind"
	EventTypeUnbind      = "bpool_unbind"
	EventTypeGulp        = "bpool_gulp"
	EventTypeSwapFee     = "bpool_swap_fee"
	EventTypePublicSwap  = "bpool_public_swap"
)

// Event attribute keys
const (
	AttributeKeyPoolID     = "pool_id"
	AttributeKeyController = "controller"
	AttributeKeyDenom      = "denom"
	AttributeKeyBalance    = "balance"
	AttributeKeyWeight     = "weight"
	AttributeKeySwapFee    = "swap_fee"
	AttributeKeyPublicSwap = "public_swap"
)
