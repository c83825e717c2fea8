package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	emailURL  string
	emailName string
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Find a public contact email for a company website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.engine.DiscoverContactEmail(ctx, emailURL, emailName)
		if addr == "" {
			fmt.Println("no contact email found")
			return nil
		}
		fmt.Println(addr)
		return nil
	},
}

func init() {
	emailCmd.Flags().StringVar(&emailURL, "url", "", "company website URL (required)")
	emailCmd.Flags().StringVar(&emailName, "name", "", "company name")
	_ = emailCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(emailCmd)
}
