package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/domain"
)

var pageCmd = &cobra.Command{
	Use:   "page [slug]",
	Short: "Render a landing page in the terminal",
	Long: `Fetches a page and renders its content blocks in document order.
Without a slug, renders the site landing page.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := buildClient(cmd)
		if err != nil {
			fmt.Printf("Error initializing canopy: %v\n", err)
			os.Exit(1)
		}

		slug := ""
		if len(args) > 0 {
			slug = args[0]
		}

		units, err := client.RenderPage(cmd.Context(), slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Printf("Page %q not found\n", slug)
			} else {
				fmt.Printf("Error fetching page: %v\n", err)
			}
			os.Exit(1)
		}

		for _, unit := range units {
			fmt.Println(unit)
		}
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
}
