package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// starterConfig is the scaffold written by `cupcake init`. It mirrors the
// built-in menu so a freshly initialized bakery behaves exactly like an
// unconfigured one, with every knob spelled out for editing.
const starterConfig = `# Cupcake kiosk configuration.
# The kiosk watches this file while serving: save it and idle kiosks pick up
# the new menu immediately; kiosks mid-order finish on the menu they started.

title: "%s"

server:
  host: localhost
  port: 8080

features:
  hot_reload: true

menu:
  # Box sizes customers can choose.
  quantities: [6, 12, 24]

  # Dollar amounts; "2.50" and "$2.50" both work.
  unit_price: "2.00"
  same_day_surcharge: "3.00"

  # How many days out pickup can be booked, starting today.
  pickup_days: 4

  # Descriptions may use Markdown: *emphasis*, **bold**, ~~strikethrough~~.
  flavors:
    - name: Vanilla
      description: "Madagascar vanilla bean, *our classic*."
    - name: Chocolate
      description: "Dark cocoa sponge with fudge frosting."
    - name: Red Velvet
      description: "Cream cheese frosting on a cocoa crumb."
    - name: Salted Caramel
      description: "Burnt sugar caramel with sea salt flakes."
    - name: Coffee
      description: "Espresso soaked sponge, mocha buttercream."
`

// InitCommand implements the init command. It scaffolds a commented
// cupcake.yaml for a bakery to edit.
func InitCommand(args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Never clobber an existing menu, under either extension.
	for _, name := range []string{"cupcake.yaml", "cupcake.yml"} {
		if _, err := os.Stat(filepath.Join(absDir, name)); err == nil {
			return fmt.Errorf("%s already exists in %s", name, dir)
		}
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	title := toTitle(filepath.Base(absDir))
	if title == "" {
		title = "Cupcake Corner"
	}

	target := filepath.Join(absDir, "cupcake.yaml")
	content := fmt.Sprintf(starterConfig, title)
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	fmt.Printf("✨ Created %s\n\n", target)
	fmt.Printf("🚀 Next steps:\n")
	if dir != "." {
		fmt.Printf("   cd %s\n", dir)
	}
	fmt.Printf("   cupcake serve\n\n")
	fmt.Printf("🧁 The kiosk will be available at http://localhost:8080\n")

	return nil
}

// toTitle converts a directory name to a display title.
// Example: "rosies-bakehouse" -> "Rosies Bakehouse".
func toTitle(name string) string {
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	words := strings.Fields(name)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
