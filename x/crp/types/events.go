package types

// Event types emitted by the crp module
const (
	EventTypePoolRegistered       = "crp_pool_registered"
	EventTypePoolCreated          = "crp_pool_created"
	EventTypeControllerChanged    = "crp_controller_changed"
	EventTypeSwapFeeChanged       = "crp_swap_fee_changed"
	EventTypePublicSwapChanged    = "crp_public_swap_changed"
	EventTypeWeightUpdated        = "crp_weight_updated"
	EventTypeGradualUpdateStarted = "crp_gradual_update_started"
	EventTypeWeightsPoked         = "crp_weights_poked"
	EventTypeTokenCommitted       = "crp_token_committed"
	EventTypeCommitmentSuperseded = "crp_commitment_superseded"
	EventTypeTokenAdded           = "crp_token_added"
	EventTypeTokenRemoved         = "crp_token_removed"
	EventTypeWeightResynced       = "crp_weight_resynced"
	EventTypeResyncDegraded       = "crp_resync_degraded"
	EventTypeWhitelistAdded       = "crp_whitelist_added"
	EventTypeWhitelistRemoved     = "crp_whitelist_removed"
	EventTypeJoinPool             = "crp_join_pool"
	EventTypeExitPool             = "crp_exit_pool"
)

// Event attribute keys
const (
	AttributeKeyPoolID           = "pool_id"
	AttributeKeyBPoolID          = "bpool_id"
	AttributeKeyController       = "controller"
	AttributeKeyCaller           = "caller"
	AttributeKeyProvider         = "provider"
	AttributeKeyDenom            = "denom"
	AttributeKeyBalance          = "balance"
	AttributeKeyWeight           = "weight"
	AttributeKeyOldWeight        = "old_weight"
	AttributeKeyNewWeight        = "new_weight"
	AttributeKeyWeights          = "weights"
	AttributeKeySwapFee          = "swap_fee"
	AttributeKeyPublicSwap       = "public_swap"
	AttributeKeyShares           = "shares"
	AttributeKeyAmounts          = "amounts"
	AttributeKeyStartHeight      = "start_height"
	AttributeKeyEndHeight        = "end_height"
	AttributeKeyApplicableHeight = "applicable_height"
	AttributeKeyReferenceBalance = "reference_balance"
	AttributeKeyCurrentBalance   = "current_balance"
	AttributeKeyReason           = "reason"
	AttributeKeyGulped           = "gulped"
	AttributeKeyRights           = "rights"
)
