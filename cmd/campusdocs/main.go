// Command campusdocs is a small terminal client for the document portal:
// browse catalogs, manage subjects, and perform admin uploads and deletes.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"campusdocs/internal/client"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	flagServer  string
	flagToken   string
	flagTimeout time.Duration
)

func newClient() *client.Client {
	opts := []client.Option{client.WithTimeout(flagTimeout)}
	if flagToken != "" {
		opts = append(opts, client.WithToken(flagToken))
	}
	return client.New(flagServer, opts...)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	root := &cobra.Command{
		Use:           "campusdocs",
		Short:         "Terminal client for the campusdocs portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server",
		envOr("CAMPUSDOCS_SERVER", "http://localhost:8080"), "server base URL")
	root.PersistentFlags().StringVar(&flagToken, "token",
		os.Getenv("CAMPUSDOCS_TOKEN"), "bearer token for admin endpoints")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout",
		client.DefaultTimeout, "per-request timeout")

	root.AddCommand(
		newHealthCmd(),
		newSignupCmd(),
		newCatalogCmd(),
		newDepartmentsCmd(),
		newSubjectsCmd(),
		newUploadCmd(),
		newDeleteCmd(),
		newDownloadCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}
