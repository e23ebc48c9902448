// Command progresskit-admin is an operator CLI for a running progresskit
// server. It talks to the HTTP API through the Go SDK.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	sdk "progresskit/sdk/go"
)

func main() {
	baseURL := flag.String("base-url", envOr("PROGRESSKIT_BASE_URL", "http://localhost:8080/api"), "server base URL")
	apiKey := flag.String("api-key", os.Getenv("PROGRESSKIT_API_KEY"), "API key, if the server requires one")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&showCmd{baseURL: baseURL, apiKey: apiKey}, "learners")
	subcommands.Register(&badgesCmd{baseURL: baseURL, apiKey: apiKey}, "catalog")
	subcommands.Register(&topCmd{baseURL: baseURL, apiKey: apiKey}, "leaderboard")
	subcommands.Register(&simulateCmd{baseURL: baseURL, apiKey: apiKey}, "testing")
	subcommands.Register(&healthCmd{baseURL: baseURL, apiKey: apiKey}, "ops")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient(baseURL, apiKey *string) (*sdk.Client, error) {
	var opts []sdk.Option
	if *apiKey != "" {
		opts = append(opts, sdk.WithAPIKey(*apiKey))
	}
	return sdk.NewClient(*baseURL, opts...)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "error:", err)
	return subcommands.ExitFailure
}
