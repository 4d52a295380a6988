package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/crp/simapp"
	bpooltypes "github.com/paw-chain/crp/x/bpool/types"
	crptypes "github.com/paw-chain/crp/x/crp/types"
)

const (
	flagSeed   = "seed"
	flagSteps  = "steps"
	flagTokens = "tokens"
)

// NewSimulateCmd replays a scenario file.
func NewSimulateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Replay a scenario against a fresh pool",
		Long: `Replay a YAML, JSON or TOML scenario against a fresh in-memory pool and
print every step outcome followed by the final pool state as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, v)
			if err != nil {
				return err
			}
			startMetrics(v, logger)

			scenario, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			runner, err := NewRunner(logger, scenario)
			if err != nil {
				return err
			}

			results, runErr := runner.Run(scenario.Steps)
			state, err := runner.State()
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), struct {
				Steps []StepResult `json:"steps"`
				State PoolState    `json:"state"`
			}{results, state}); err != nil {
				return err
			}
			return runErr
		},
	}
}

// NewRandomCmd runs a randomized simulation with invariant checks.
func NewRandomCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Run random operations against a random pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd, v)
			if err != nil {
				return err
			}
			startMetrics(v, logger)

			seed := v.GetInt64(flagSeed)
			r := rand.New(rand.NewSource(seed))
			app, err := simapp.New(logger)
			if err != nil {
				return err
			}

			config := simapp.RandomPoolConfig(r, v.GetInt(flagTokens), crptypes.AllRights, bpooltypes.MinBalance.MulRaw(1_000_000))
			controller := AccountAddress(defaultControllerAccount)
			if err := app.FundForPool(controller, config, 10); err != nil {
				return err
			}
			poolID, err := app.CRPKeeper.NewPool(app.Context(), controller, config)
			if err != nil {
				return err
			}
			if err := app.CRPKeeper.CreatePool(app.Context(), controller, poolID, crptypes.DefaultInitialSupply); err != nil {
				return err
			}

			sim := simapp.Simulation{
				App:        app,
				PoolID:     poolID,
				Controller: controller,
				Providers:  simapp.RandomProviders(r, 2),
				Params:     simapp.RandomSimulationParams(r),
			}
			for _, p := range sim.Providers {
				if err := app.CRPKeeper.WhitelistLiquidityProvider(app.Context(), controller, poolID, p); err != nil {
					return err
				}
			}

			stats, runErr := sim.Run(r, v.GetInt(flagSteps))
			runner := &Runner{App: app, PoolID: poolID, Controller: controller}
			state, err := runner.State()
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), struct {
				Seed  int64                 `json:"seed"`
				Stats simapp.OperationStats `json:"stats"`
				State PoolState             `json:"state"`
			}{seed, stats, state}); err != nil {
				return err
			}
			if runErr != nil {
				return fmt.Errorf("seed %d: %w", seed, runErr)
			}
			return nil
		},
	}

	cmd.Flags().Int64(flagSeed, 1, "random seed")
	cmd.Flags().Int(flagSteps, 500, "number of random operations")
	cmd.Flags().Int(flagTokens, 3, "number of initial pool tokens")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}
