package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/telecon-hub-be/internal/seed"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [fixture.yaml]",
		Short: "Load a YAML fixture into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.LoadFixture(args[0])
			if err != nil {
				return err
			}
			return apply(cmd, fixture, args[0])
		},
	}
}

func importLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy [data-dir]",
		Short: "Import the flat JSON files of an old deployment, hashing their passwords",
		Long: `Reads usuarios.json, transacoes.json, cartao.json, fatura.json and
chavesPix.json from data-dir and writes them into the configured store.
Plaintext passwords are replaced by bcrypt hashes. Records that already
exist are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.LoadLegacy(args[0])
			if err != nil {
				return err
			}
			return apply(cmd, fixture, args[0])
		},
	}
}

func apply(cmd *cobra.Command, fixture seed.Fixture, source string) error {
	ctx := cmd.Context()
	store, _, logger, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := seed.Apply(ctx, store, fixture)
	if err != nil {
		return fmt.Errorf("apply %s: %w", source, err)
	}
	logger.Info().Str("source", source).Msg("data loaded")
	fmt.Fprint(cmd.OutOrStdout(), summary.String())
	return nil
}
