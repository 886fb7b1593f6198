package commands

import (
	"fmt"

	"github.com/ranjanproject/composenavigation/internal/config"
)

// ValidateCommand implements the validate command. It checks a cupcake.yaml
// the way serve would, without starting the kiosk.
func ValidateCommand(args []string) error {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}

	file, err := resolveConfigArg(arg)
	if err != nil {
		return err
	}

	if file == "" {
		fmt.Printf("No cupcake.yaml found in %s\n", arg)
		fmt.Printf("The kiosk would run with the built-in menu. Run 'cupcake init' to scaffold one.\n")
		return nil
	}

	fmt.Printf("🔍 Validating %s\n\n", file)

	cfg, err := config.Load(file)
	if err != nil {
		return config.Describe(file, err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Describe(file, err)
	}

	// Validate guarantees the menu builds.
	m, err := cfg.Menu.Build()
	if err != nil {
		return config.Describe(file, err)
	}

	fmt.Printf("✓ server %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("✓ %d flavor(s), boxes of %s\n", len(m.Flavors), formatQuantities(m.Quantities))
	fmt.Printf("✓ %s per cupcake, +%s same-day surcharge\n", m.UnitPrice, m.SameDaySurcharge)
	fmt.Printf("✓ pickup bookable %d day(s) out\n", m.PickupDays)
	fmt.Printf("\n✓ All checks passed!\n")

	return nil
}
