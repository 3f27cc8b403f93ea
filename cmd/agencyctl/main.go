package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nexadigital/nexa-api/internal/services"
	"github.com/nexadigital/nexa-api/pkg/identity"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	projectID       string
	credentialsPath string
	timeout         time.Duration
	jsonOutput      bool
	verbose         bool
)

// newLister connects to the identity provider; tests swap it for a fake
var newLister = func(ctx context.Context) (services.DirectoryLister, error) {
	return identity.NewAdmin(ctx, identity.AdminOptions{
		ProjectID:       projectID,
		CredentialsPath: credentialsPath,
	})
}

// rootCmd is the operator CLI for the agency backend
var rootCmd = &cobra.Command{
	Use:   "agencyctl",
	Short: "Operator tools for the Nexa Digital backend",
	Long: `agencyctl inspects the user directory and builds messaging deep links
without going through the HTTP API.

Available commands:
  count   - Walk the whole user directory and print totals
  avatars - Print the newest users shown on the landing page
  link    - Compose a WhatsApp deep link for a project or question`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Initialize(logger.Config{Level: level, Environment: "development", ServiceName: "agencyctl"})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectID, "project", os.Getenv("FIREBASE_PROJECT_ID"), "Firebase project id (or set FIREBASE_PROJECT_ID)")
	rootCmd.PersistentFlags().StringVar(&credentialsPath, "credentials", os.Getenv("FIREBASE_CREDENTIALS_PATH"), "Service account JSON (or set FIREBASE_CREDENTIALS_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(avatarsCmd)
	rootCmd.AddCommand(linkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
