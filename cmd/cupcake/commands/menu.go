package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ranjanproject/composenavigation/internal/config"
)

// MenuCommand implements the menu command. It prints the menu a bakery's
// config resolves to, priced the way the kiosk would price it.
func MenuCommand(args []string) error {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}

	file, err := resolveConfigArg(arg)
	if err != nil {
		return err
	}

	cfg, err := config.Load(file)
	if err != nil {
		return config.Describe(file, err)
	}

	m, err := cfg.Menu.Build()
	if err != nil {
		return config.Describe(file, err)
	}

	fmt.Printf("🧁 %s\n", cfg.Title)
	if file == "" {
		fmt.Printf("   built-in menu (no cupcake.yaml found)\n")
	} else {
		fmt.Printf("   %s\n", file)
	}
	fmt.Println()

	fmt.Printf("Boxes:      %s cupcakes\n", formatQuantities(m.Quantities))
	fmt.Printf("Unit price: %s\n", m.UnitPrice)
	fmt.Printf("Same-day:   +%s pickup surcharge\n", m.SameDaySurcharge)
	fmt.Printf("Pickup:     next %d day(s)\n", m.PickupDays)
	fmt.Println()

	fmt.Println("Flavors:")
	width := 0
	for _, f := range m.Flavors {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}
	for _, f := range m.Flavors {
		if f.Description == "" {
			fmt.Printf("  %s\n", f.Name)
		} else {
			fmt.Printf("  %-*s  %s\n", width, f.Name, f.Description)
		}
	}

	return nil
}

// resolveConfigArg accepts either a bakery directory or a config file path
// and returns the config file to read. An empty result means the directory
// has no config file and the built-in defaults apply.
func resolveConfigArg(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("path does not exist: %s", arg)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", arg, err)
	}

	if info.IsDir() {
		return config.FindConfigFile(abs), nil
	}
	return abs, nil
}

// formatQuantities renders box sizes the way the kiosk speaks about them:
// "6, 12 or 24".
func formatQuantities(quantities []int) string {
	switch len(quantities) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(quantities[0])
	}

	parts := make([]string, len(quantities))
	for i, q := range quantities {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
