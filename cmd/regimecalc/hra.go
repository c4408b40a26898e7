package main

import (
	"fmt"

	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/config"
	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/finplan/regime-calculator/internal/output"
	money "github.com/finplan/regime-calculator/pkg/decimal"

	"github.com/spf13/cobra"
)

var (
	flagBasic   string
	flagHRA     string
	flagRent    string
	flagMetro   bool
	flagMonthly bool
)

var hraCmd = &cobra.Command{
	Use:   "hra",
	Short: "Compute the HRA exemption for the old regime",
	Example: "  regimecalc hra --basic 600000 --hra 300000 --rent 240000 --metro\n" +
		"  regimecalc hra --monthly --basic 50000 --hra 25000 --rent 20000",
	Args: cobra.NoArgs,
	RunE: runHRA,
}

func init() {
	hraCmd.Flags().StringVar(&flagBasic, "basic", "0", "Basic salary (plus dearness allowance)")
	hraCmd.Flags().StringVar(&flagHRA, "hra", "0", "HRA received")
	hraCmd.Flags().StringVar(&flagRent, "rent", "0", "Rent paid")
	hraCmd.Flags().BoolVar(&flagMetro, "metro", false, "Rented home is in a metro city (50% of basic instead of 40%)")
	hraCmd.Flags().BoolVar(&flagMonthly, "monthly", false, "Amounts are monthly; they are annualised before computing")
	rootCmd.AddCommand(hraCmd)
}

// parseAmount reads a rupee amount flag, accepting Indian or western digit grouping.
func parseAmount(name, value string) (money.Money, error) {
	m, err := money.NewMoneyFromString(value)
	if err != nil {
		return money.Zero(), fmt.Errorf("%w: --%s: %v", config.ErrInvalidInput, name, err)
	}
	if flagMonthly {
		m = m.Annual()
	}
	return m, nil
}

func runHRA(cmd *cobra.Command, _ []string) error {
	basic, err := parseAmount("basic", flagBasic)
	if err != nil {
		return err
	}
	received, err := parseAmount("hra", flagHRA)
	if err != nil {
		return err
	}
	rent, err := parseAmount("rent", flagRent)
	if err != nil {
		return err
	}

	in := domain.HRAInputs{
		BasicSalary: basic.Decimal,
		HRAReceived: received.Decimal,
		RentPaid:    rent.Decimal,
		MetroCity:   flagMetro,
	}
	if err := config.ValidateHRA(&in); err != nil {
		return err
	}

	exemption := money.NewMoneyFromDecimal(calculation.ComputeHRAExemption(in))
	taxable := money.NewMoneyFromDecimal(domain.NonNegative(in.HRAReceived.Sub(exemption.Decimal)))

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  Basic salary (annual): %s\n", output.FormatRupees(basic.Decimal))
	fmt.Fprintf(w, "  HRA received (annual): %s\n", output.FormatRupees(received.Decimal))
	fmt.Fprintf(w, "  Rent paid (annual):    %s\n", output.FormatRupees(rent.Decimal))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Exempt HRA:            %s\n", output.FormatRupees(exemption.Decimal))
	fmt.Fprintf(w, "  Taxable HRA:           %s\n", output.FormatRupees(taxable.Decimal))
	if flagMonthly {
		fmt.Fprintf(w, "  Exempt per month:      %s\n", output.FormatRupees(exemption.Monthly().Round().Decimal))
	}
	return nil
}
