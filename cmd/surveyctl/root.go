package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
)

const defaultAPI = "http://localhost:8080/api/v1"

// options là cấu hình chung của mọi lệnh
type options struct {
	api   string
	token string
	dial  fasthttp.DialFunc
}

func (o *options) client() *apiClient {
	return newAPIClient(o.api, o.token, o.dial)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveyctl",
		Short: "Bulk import tool for the engagement survey API",
		Long: `surveyctl imports employees, questions and snippets into the engagement survey API.

Rows are either encoded records (one per line, legacy colon or framed format)
or a CSV file with a header row. Every call needs a bearer token of an admin
or super admin.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.api, "api", envOr("SURVEYCTL_API", defaultAPI), "API base URL (env SURVEYCTL_API)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SURVEYCTL_TOKEN"), "Bearer token (env SURVEYCTL_TOKEN)")

	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newQuestionsCommand(opts))
	cmd.AddCommand(newEncodeCommand())
	return cmd
}
