package cmd

import (
	"fmt"
	"sort"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto/tmhash"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/viper"

	"github.com/paw-chain/crp/simapp"
	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

// Scenario actions
const (
	ActionUpdateWeight       = "update_weight"
	ActionUpdateGradually    = "update_weights_gradually"
	ActionPoke               = "poke"
	ActionAdvance            = "advance"
	ActionCommitAddToken     = "commit_add_token"
	ActionApplyAddToken      = "apply_add_token"
	ActionRemoveToken        = "remove_token"
	ActionRebase             = "rebase"
	ActionResync             = "resync"
	ActionSafeResync         = "safe_resync"
	ActionSetSwapFee         = "set_swap_fee"
	ActionSetPublicSwap      = "set_public_swap"
	ActionWhitelist          = "whitelist"
	ActionRemoveWhitelist    = "remove_whitelist"
	ActionJoin               = "join"
	ActionExit               = "exit"
	ActionSetController      = "set_controller"
	defaultControllerAccount = "controller"
)

// Scenario describes one pool and the steps replayed against it. Token
// amounts are whole tokens with 18 decimals.
type Scenario struct {
	Controller  string    `mapstructure:"controller"`
	StartHeight int64     `mapstructure:"start_height"`
	AutoPoke    bool      `mapstructure:"auto_poke"`
	Pool        PoolSetup `mapstructure:"pool"`
	Steps       []Step    `mapstructure:"steps"`
}

// PoolSetup is the pool created before the first step.
type PoolSetup struct {
	Tokens                    []TokenSetup `mapstructure:"tokens"`
	SwapFee                   string       `mapstructure:"swap_fee"`
	Rights                    []string     `mapstructure:"rights"`
	Elastic                   bool         `mapstructure:"elastic"`
	MinimumWeightChangePeriod int64        `mapstructure:"minimum_weight_change_period"`
	AddTokenTimeLock          int64        `mapstructure:"add_token_time_lock"`
	InitialSupply             string       `mapstructure:"initial_supply"`
}

// TokenSetup is one initial token of a pool.
type TokenSetup struct {
	Denom   string `mapstructure:"denom"`
	Balance string `mapstructure:"balance"`
	Weight  string `mapstructure:"weight"`
}

// Step is one action. Height, when set, advances the chain first.
type Step struct {
	Action      string   `mapstructure:"action"`
	Height      int64    `mapstructure:"height"`
	Account     string   `mapstructure:"account"`
	Denom       string   `mapstructure:"denom"`
	Weight      string   `mapstructure:"weight"`
	Weights     []string `mapstructure:"weights"`
	Balance     string   `mapstructure:"balance"`
	Amount      string   `mapstructure:"amount"`
	Factor      string   `mapstructure:"factor"`
	Fee         string   `mapstructure:"fee"`
	Enabled     bool     `mapstructure:"enabled"`
	Start       int64    `mapstructure:"start"`
	End         int64    `mapstructure:"end"`
	ExpectError string   `mapstructure:"expect_error"`
}

// LoadScenario reads a YAML, JSON or TOML scenario. CRPD_* environment
// variables override top-level and pool keys, e.g. CRPD_POOL_SWAP_FEE.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("controller", defaultControllerAccount)
	v.SetDefault("start_height", 1)

	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var scenario Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	return scenario, nil
}

// PoolConfig converts the pool setup into a pool configuration.
func (p PoolSetup) PoolConfig() (crptypes.PoolConfig, error) {
	rights, err := crptypes.ParseRights(p.Rights)
	if err != nil {
		return crptypes.PoolConfig{}, err
	}
	fee, err := parseDec(p.SwapFee)
	if err != nil {
		return crptypes.PoolConfig{}, fmt.Errorf("swap_fee: %w", err)
	}

	config := crptypes.PoolConfig{
		SwapFee:                   fee,
		Rights:                    rights,
		Elastic:                   p.Elastic,
		MinimumWeightChangePeriod: p.MinimumWeightChangePeriod,
		AddTokenTimeLock:          p.AddTokenTimeLock,
	}
	for _, t := range p.Tokens {
		balance, err := parseAmount(t.Balance)
		if err != nil {
			return crptypes.PoolConfig{}, fmt.Errorf("token %s balance: %w", t.Denom, err)
		}
		weight, err := parseDec(t.Weight)
		if err != nil {
			return crptypes.PoolConfig{}, fmt.Errorf("token %s weight: %w", t.Denom, err)
		}
		config.Tokens = append(config.Tokens, crptypes.PoolToken{Denom: t.Denom, Balance: balance, Weight: weight})
	}
	return config, config.Validate()
}

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Height int64  `json:"height"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// PoolState is a snapshot of the pool after a replay.
type PoolState struct {
	Height      int64             `json:"height"`
	Weights     map[string]string `json:"weights"`
	Balances    map[string]string `json:"balances"`
	TotalShares string            `json:"total_shares"`
	Scheduled   bool              `json:"scheduled"`
	Pending     string            `json:"pending_token,omitempty"`
}

// Runner replays scenario steps against a fresh simapp.
type Runner struct {
	App        *simapp.App
	PoolID     uint64
	Controller sdk.AccAddress
}

// NewRunner builds the app and creates the scenario's pool. The controller
// is funded with ten times the initial balances.
func NewRunner(logger log.Logger, scenario Scenario) (*Runner, error) {
	config, err := scenario.Pool.PoolConfig()
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	supply := crptypes.DefaultInitialSupply
	if scenario.Pool.InitialSupply != "" {
		if supply, err = parseAmount(scenario.Pool.InitialSupply); err != nil {
			return nil, fmt.Errorf("initial_supply: %w", err)
		}
	}

	app, err := simapp.New(logger, simapp.WithStartHeight(scenario.StartHeight))
	if err != nil {
		return nil, err
	}
	ctx := app.Context()
	params := app.CRPKeeper.GetParams(ctx)
	params.AutoPokeWeights = scenario.AutoPoke
	if err := app.CRPKeeper.SetParams(ctx, params); err != nil {
		return nil, err
	}

	controller := AccountAddress(scenario.Controller)
	if err := app.FundForPool(controller, config, 10); err != nil {
		return nil, err
	}
	poolID, err := app.CRPKeeper.NewPool(ctx, controller, config)
	if err != nil {
		return nil, err
	}
	if err := app.CRPKeeper.CreatePool(ctx, controller, poolID, supply); err != nil {
		return nil, err
	}
	return &Runner{App: app, PoolID: poolID, Controller: controller}, nil
}

// Run replays steps in order. A step whose outcome differs from its
// expect_error stops the replay.
func (r *Runner) Run(steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))
	for i, step := range steps {
		if step.Height > 0 {
			if step.Height < r.App.Height() {
				return results, fmt.Errorf("step %d: height %d is in the past (now %d)", i, step.Height, r.App.Height())
			}
			if err := r.App.AdvanceTo(step.Height); err != nil {
				return results, err
			}
		}

		detail, err := r.execute(step)
		result := StepResult{Index: i, Action: step.Action, Height: r.App.Height(), Detail: detail}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)

		switch {
		case err != nil && step.ExpectError == "":
			return results, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		case err == nil && step.ExpectError != "":
			return results, fmt.Errorf("step %d (%s): expected error containing %q", i, step.Action, step.ExpectError)
		case err != nil && !strings.Contains(err.Error(), step.ExpectError):
			return results, fmt.Errorf("step %d (%s): expected error containing %q, got %w", i, step.Action, step.ExpectError, err)
		}
	}
	return results, r.App.AssertInvariants()
}

func (r *Runner) execute(step Step) (string, error) {
	app := r.App
	ctx := app.Context()
	k := app.CRPKeeper
	caller := r.Controller
	if step.Account != "" {
		caller = AccountAddress(step.Account)
	}

	switch step.Action {
	case ActionAdvance:
		return "", nil

	case ActionUpdateWeight:
		weight, err := parseDec(step.Weight)
		if err != nil {
			return "", err
		}
		return "", k.UpdateWeight(ctx, caller, r.PoolID, step.Denom, weight)

	case ActionUpdateGradually:
		weights := make([]math.LegacyDec, len(step.Weights))
		for i, w := range step.Weights {
			d, err := parseDec(w)
			if err != nil {
				return "", err
			}
			weights[i] = d
		}
		return "", k.UpdateWeightsGradually(ctx, caller, r.PoolID, weights, step.Start, step.End)

	case ActionPoke:
		return "", k.PokeWeights(ctx, r.PoolID)

	case ActionCommitAddToken:
		balance, err := parseAmount(step.Balance)
		if err != nil {
			return "", err
		}
		weight, err := parseDec(step.Weight)
		if err != nil {
			return "", err
		}
		if err := app.FundAccount(ctx, caller, sdk.NewCoins(sdk.NewCoin(step.Denom, balance))); err != nil {
			return "", err
		}
		return "", k.CommitAddToken(ctx, caller, r.PoolID, step.Denom, balance, weight)

	case ActionApplyAddToken:
		return "", k.ApplyAddToken(ctx, caller, r.PoolID)

	case ActionRemoveToken:
		return "", k.RemoveToken(ctx, caller, r.PoolID, step.Denom)

	case ActionRebase:
		factor, err := parseDec(step.Factor)
		if err != nil {
			return "", err
		}
		pool, err := k.GetPool(ctx, r.PoolID)
		if err != nil {
			return "", err
		}
		holder := bpooltypes.PoolAddress(pool.BPoolId)
		actual := app.BankKeeper.GetBalance(ctx, holder, step.Denom).Amount
		rebased, err := app.Rebase(ctx, holder, step.Denom, factor)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s -> %s", actual, rebased), nil

	case ActionResync:
		weight, err := k.ResyncWeight(ctx, r.PoolID, step.Denom)
		if err != nil {
			return "", err
		}
		return "weight " + weight.String(), nil

	case ActionSafeResync:
		result := k.SafeResync(ctx, r.PoolID, step.Denom)
		if result.Resynced {
			return "weight " + result.NewWeight.String(), nil
		}
		return fmt.Sprintf("degraded (reason %q, gulped %t)", result.Reason, result.Gulped), nil

	case ActionSetSwapFee:
		fee, err := parseDec(step.Fee)
		if err != nil {
			return "", err
		}
		return "", k.SetSwapFee(ctx, caller, r.PoolID, fee)

	case ActionSetPublicSwap:
		return "", k.SetPublicSwap(ctx, caller, r.PoolID, step.Enabled)

	case ActionSetController:
		return "", k.SetController(ctx, r.Controller, r.PoolID, caller)

	case ActionWhitelist:
		return "", k.WhitelistLiquidityProvider(ctx, r.Controller, r.PoolID, caller)

	case ActionRemoveWhitelist:
		return "", k.RemoveWhitelistedLiquidityProvider(ctx, r.Controller, r.PoolID, caller)

	case ActionJoin:
		return r.join(caller, step)

	case ActionExit:
		shares, err := parseAmount(step.Amount)
		if err != nil {
			return "", err
		}
		tokens, _, err := k.GetCurrentWeights(ctx, r.PoolID)
		if err != nil {
			return "", err
		}
		minOut := make([]math.Int, len(tokens))
		for i := range minOut {
			minOut[i] = math.ZeroInt()
		}
		out, err := k.ExitPool(ctx, caller, r.PoolID, shares, minOut)
		if err != nil {
			return "", err
		}
		return formatAmounts(tokens, out), nil
	}
	return "", fmt.Errorf("unknown action %q", step.Action)
}

// join funds the provider with the pool's reserves and joins with amount
// shares.
func (r *Runner) join(provider sdk.AccAddress, step Step) (string, error) {
	app := r.App
	ctx := app.Context()
	k := app.CRPKeeper

	shares, err := parseAmount(step.Amount)
	if err != nil {
		return "", err
	}
	pool, err := k.GetPool(ctx, r.PoolID)
	if err != nil {
		return "", err
	}
	tokens, _, err := k.GetCurrentWeights(ctx, r.PoolID)
	if err != nil {
		return "", err
	}
	maxIn := make([]math.Int, len(tokens))
	funds := sdk.NewCoins()
	for i, denom := range tokens {
		balance, err := app.PoolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return "", err
		}
		maxIn[i] = balance
		funds = funds.Add(sdk.NewCoin(denom, balance))
	}
	if err := app.FundAccount(ctx, provider, funds); err != nil {
		return "", err
	}
	in, err := k.JoinPool(ctx, provider, r.PoolID, shares, maxIn)
	if err != nil {
		return "", err
	}
	return formatAmounts(tokens, in), nil
}

// State snapshots the pool.
func (r *Runner) State() (PoolState, error) {
	ctx := r.App.Context()
	k := r.App.CRPKeeper

	pool, err := k.GetPool(ctx, r.PoolID)
	if err != nil {
		return PoolState{}, err
	}
	tokens, weights, err := k.GetCurrentWeights(ctx, r.PoolID)
	if err != nil {
		return PoolState{}, err
	}
	state := PoolState{
		Height:      r.App.Height(),
		Weights:     make(map[string]string, len(tokens)),
		Balances:    make(map[string]string, len(tokens)),
		TotalShares: k.TotalShares(ctx, r.PoolID).String(),
	}
	for i, denom := range tokens {
		balance, err := r.App.PoolKeeper.GetBalance(ctx, pool.BPoolId, denom)
		if err != nil {
			return PoolState{}, err
		}
		state.Weights[denom] = weights[i].String()
		state.Balances[denom] = balance.String()
	}
	if _, state.Scheduled, err = k.GetGradualUpdate(ctx, r.PoolID); err != nil {
		return PoolState{}, err
	}
	commitment, found, err := k.GetNewTokenCommitment(ctx, r.PoolID)
	if err != nil {
		return PoolState{}, err
	}
	if found {
		state.Pending = commitment.Denom
	}
	return state, nil
}

// AccountAddress derives a deterministic address from an account name.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

var oneToken = math.NewIntWithDecimal(1, 18)

// parseAmount converts whole tokens into base units.
func parseAmount(s string) (math.Int, error) {
	d, err := parseDec(s)
	if err != nil {
		return math.Int{}, err
	}
	if d.IsNegative() {
		return math.Int{}, fmt.Errorf("negative amount %s", s)
	}
	return d.MulInt(oneToken).TruncateInt(), nil
}

func parseDec(s string) (math.LegacyDec, error) {
	if s == "" {
		return math.LegacyDec{}, fmt.Errorf("missing decimal")
	}
	return math.LegacyNewDecFromStr(s)
}

func formatAmounts(tokens []string, amounts []math.Int) string {
	parts := make([]string, len(tokens))
	for i, denom := range tokens {
		parts[i] = amounts[i].String() + denom
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
