// Command cupcake runs a self-serve cupcake ordering kiosk for a single bakery.
package main

import (
	"fmt"
	"os"

	"github.com/ranjanproject/composenavigation/cmd/cupcake/commands"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "serve":
		err = commands.ServeCommand(args)
	case "menu":
		err = commands.MenuCommand(args)
	case "validate":
		err = commands.ValidateCommand(args)
	case "init":
		err = commands.InitCommand(args)
	case "version":
		fmt.Printf("cupcake version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("cupcake - a self-serve cupcake ordering kiosk")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cupcake serve [directory]     Start the kiosk")
	fmt.Println("  cupcake menu [directory]      Show the menu a config resolves to")
	fmt.Println("  cupcake validate [directory]  Check cupcake.yaml without serving")
	fmt.Println("  cupcake init [directory]      Write a starter cupcake.yaml")
	fmt.Println("  cupcake version               Show version")
	fmt.Println("  cupcake help                  Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  cupcake serve                 # Serve current directory")
	fmt.Println("  cupcake serve ./my-bakery     # Serve a bakery directory")
	fmt.Println("  cupcake serve --port 9000     # Override the configured port")
	fmt.Println("  cupcake serve --no-watch      # Freeze the menu until restart")
	fmt.Println("  cupcake init ./my-bakery      # Scaffold a menu to edit")
	fmt.Println("  cupcake validate              # Check the menu in the current directory")
}
