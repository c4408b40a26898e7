package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/finplan/regime-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML plan configuration
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidInput, err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Plans) == 0 {
		return fmt.Errorf("%w: no plans provided", ErrInvalidInput)
	}

	names := make(map[string]bool, len(config.Plans))
	for i := range config.Plans {
		plan := &config.Plans[i]
		if err := ValidatePlan(plan); err != nil {
			return fmt.Errorf("plan %d validation failed: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(plan.Name))
		if names[key] {
			return fmt.Errorf("%w: duplicate plan name %q", ErrInvalidInput, plan.Name)
		}
		names[key] = true
	}

	return nil
}

// ValidatePlan checks one plan at the boundary. The engine itself clamps
// negative amounts; rejecting them here surfaces typos to the user.
func ValidatePlan(plan *domain.Plan) error {
	if strings.TrimSpace(plan.Name) == "" {
		return fmt.Errorf("%w: plan name is required", ErrInvalidInput)
	}
	if err := validateIncome(&plan.Income); err != nil {
		return err
	}
	if err := ValidateHRA(&plan.HRA); err != nil {
		return err
	}
	for i := range plan.Deductions {
		if err := validateDeduction(i, &plan.Deductions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateIncome validates the income heads
func validateIncome(income *domain.IncomeProfile) error {
	if income.Salary.IsNegative() {
		return fmt.Errorf("%w: salary cannot be negative", ErrInvalidInput)
	}
	if income.OtherIncome.IsNegative() {
		return fmt.Errorf("%w: other income cannot be negative", ErrInvalidInput)
	}
	if income.CapitalGains.IsNegative() {
		return fmt.Errorf("%w: capital gains cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateHRA validates house rent allowance inputs
func ValidateHRA(hra *domain.HRAInputs) error {
	if hra.BasicSalary.IsNegative() {
		return fmt.Errorf("%w: basic salary cannot be negative", ErrInvalidInput)
	}
	if hra.HRAReceived.IsNegative() {
		return fmt.Errorf("%w: HRA received cannot be negative", ErrInvalidInput)
	}
	if hra.RentPaid.IsNegative() {
		return fmt.Errorf("%w: rent paid cannot be negative", ErrInvalidInput)
	}
	if hra.BasicSalary.IsPositive() && hra.HRAReceived.GreaterThan(hra.BasicSalary) {
		return fmt.Errorf("%w: HRA received cannot exceed basic salary", ErrInvalidInput)
	}
	return nil
}

// validateDeduction validates a single deduction line item
func validateDeduction(i int, item *domain.DeductionItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: deduction %d: name is required", ErrInvalidInput, i)
	}
	if !item.Section.Valid() {
		return fmt.Errorf("%w: deduction %q: unknown section", ErrInvalidInput, item.Name)
	}
	if item.Claimed.IsNegative() {
		return fmt.Errorf("%w: deduction %q: claimed amount cannot be negative", ErrInvalidInput, item.Name)
	}
	if item.Cap != nil && item.Cap.IsNegative() {
		return fmt.Errorf("%w: deduction %q: cap cannot be negative", ErrInvalidInput, item.Name)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration with two
// what-if plans for the same salary
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	income := domain.IncomeProfile{
		Salary:       decimal.NewFromInt(1800000),
		OtherIncome:  decimal.NewFromInt(40000),
		CapitalGains: decimal.Zero,
	}
	hra := domain.HRAInputs{
		BasicSalary: decimal.NewFromInt(900000),
		HRAReceived: decimal.NewFromInt(360000),
		RentPaid:    decimal.NewFromInt(300000),
		MetroCity:   true,
	}

	return &domain.Configuration{
		Taxpayer: "Priya Sharma",
		Plans: []domain.Plan{
			{
				Name:   "Current investments",
				Income: income,
				HRA:    hra,
				Deductions: []domain.DeductionItem{
					{Name: "EPF employee share", Section: domain.Section80C, Claimed: decimal.NewFromInt(108000), Eligible: true},
					{Name: "Life insurance premium", Section: domain.Section80C, Claimed: decimal.NewFromInt(24000), Eligible: true},
					{Name: "Family floater", Section: domain.Section80D, Claimed: decimal.NewFromInt(18000), Eligible: true},
					{Name: "Savings interest", Section: domain.Section80TTA, Claimed: decimal.NewFromInt(6500), Eligible: true},
				},
			},
			{
				Name:   "Maximised deductions",
				Income: income,
				HRA:    hra,
				Deductions: []domain.DeductionItem{
					{Name: "EPF employee share", Section: domain.Section80C, Claimed: decimal.NewFromInt(108000), Eligible: true},
					{Name: "Life insurance premium", Section: domain.Section80C, Claimed: decimal.NewFromInt(24000), Eligible: true},
					{Name: "ELSS top-up", Section: domain.Section80C, Claimed: decimal.NewFromInt(18000), Eligible: true},
					{Name: "NPS tier I", Section: domain.Section80CCD1B, Claimed: decimal.NewFromInt(50000), Eligible: true},
					{Name: "Family floater", Section: domain.Section80D, Claimed: decimal.NewFromInt(25000), Eligible: true},
					{Name: "Parents senior citizen policy", Section: domain.Section80DParents, Claimed: decimal.NewFromInt(42000), Eligible: true},
					{Name: "Savings interest", Section: domain.Section80TTA, Claimed: decimal.NewFromInt(6500), Eligible: true},
					{Name: "Home loan interest", Section: domain.Section24B, Claimed: decimal.NewFromInt(210000), Eligible: true},
				},
			},
		},
	}
}
