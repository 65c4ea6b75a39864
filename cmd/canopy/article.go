package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/domain"
)

var articleCmd = &cobra.Command{
	Use:   "article <slug>",
	Short: "Render one article in the terminal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := buildClient(cmd)
		if err != nil {
			fmt.Printf("Error initializing canopy: %v\n", err)
			os.Exit(1)
		}

		out, err := client.RenderArticle(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Printf("Article %q not found\n", args[0])
			} else {
				fmt.Printf("Error fetching article: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(articleCmd)
}
