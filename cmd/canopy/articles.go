package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/domain"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles, newest first",
	Long: `Walks the article collection page by page. By default one page is
printed; --all keeps fetching until the collection is exhausted.`,
	Run: func(cmd *cobra.Command, args []string) {
		client, err := buildClient(cmd)
		if err != nil {
			fmt.Printf("Error initializing canopy: %v\n", err)
			os.Exit(1)
		}

		tag, _ := cmd.Flags().GetString("tag")
		all, _ := cmd.Flags().GetBool("all")

		pager := client.Articles(tag)
		ctx := cmd.Context()

		if all {
			_, err = pager.FetchAll(ctx)
		} else {
			err = pager.FetchNext(ctx)
		}
		if err != nil {
			fmt.Printf("Error fetching articles: %v\n", err)
			os.Exit(1)
		}

		items := pager.Items()
		if len(items) == 0 {
			if tag != "" {
				fmt.Printf("No articles tagged %q\n", tag)
			} else {
				fmt.Println("No articles")
			}
			return
		}

		for _, a := range items {
			printArticleLine(a)
		}
		fmt.Printf("\n%d of %d article(s)", len(items), pager.Total())
		if pager.HasNext() {
			fmt.Print(" (more available, use --all)")
		}
		fmt.Println()
	},
}

func printArticleLine(a domain.Article) {
	line := fmt.Sprintf("%-30s %s", a.Slug, a.Title)
	if !a.PublishedAt.IsZero() {
		line += fmt.Sprintf("  (%s)", a.PublishedAt.Format("2006-01-02"))
	}
	fmt.Println(line)
}

func init() {
	rootCmd.AddCommand(articlesCmd)

	articlesCmd.Flags().StringP("tag", "t", "", "Only list articles with this tag")
	articlesCmd.Flags().BoolP("all", "a", false, "Fetch every page of the collection")
}
