package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/models"
)

func categorizeCmd() *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "categorize [description...]",
		Short: "Print the spending category assigned to a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			valor, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --valor %q: %w", amount, err)
			}
			txn := models.Transaction{Descricao: strings.Join(args, " "), Valor: valor}
			if bank.IsWelcomeDeposit(txn) {
				fmt.Fprintln(cmd.OutOrStdout(), "(excluído das categorias)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), bank.Categorize(txn))
			return nil
		},
	}
	cmd.Flags().StringVar(&amount, "valor", "-1", "Signed transaction amount")
	return cmd
}
