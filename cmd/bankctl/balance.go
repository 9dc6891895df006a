package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [userId]",
		Short: "Show balance, card headroom and spending by category for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid userId %q", args[0])
			}

			ctx := cmd.Context()
			store, cfg, logger, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			svc := bank.New(store, bank.WithLogger(logger), bank.WithCardLimit(cfg.DefaultCardLimit))

			user, err := svc.User(ctx, userID)
			if err != nil {
				return err
			}
			balance, err := svc.Balance(ctx, userID)
			if err != nil {
				return err
			}
			available, err := svc.Available(ctx, userID)
			if err != nil {
				return err
			}
			groups, err := svc.SpendingByCategory(ctx, userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (id=%d, cpf=%s)\n", user.Nome, user.ID, user.CPF)
			fmt.Fprintf(out, "  Saldo:       %s\n", money(balance))
			fmt.Fprintf(out, "  Disponível:  %s\n", money(available))
			if len(groups) == 0 {
				return nil
			}
			fmt.Fprintln(out, "  Por categoria:")
			for _, label := range bank.CategoryLabels {
				if v, ok := groups[label]; ok {
					fmt.Fprintf(out, "    %-20s %s\n", label, money(v))
				}
			}
			return nil
		},
	}
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
