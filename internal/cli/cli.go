package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lablabs/cloudflare-analytics/internal/cloudflare"
	"github.com/lablabs/cloudflare-analytics/internal/client"
	"github.com/lablabs/cloudflare-analytics/internal/logging"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=<tag>".
var Version = "0.1.0"

// Execute initializes and runs the Cobra CLI
func Execute() error {
	// a missing .env is not an error
	_ = godotenv.Load()
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree and binds its flags to viper.
func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:           "cloudflare-analytics",
		Short:         "Cloudflare zone traffic and web analytics aggregated per date and host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetOutput(cmd.ErrOrStderr())
			logging.InitializeLogger(viper.GetString("log_level"), viper.GetString("log_format"))
		},
	}

	flags := cmd.PersistentFlags()

	flags.String("cf_api_key", "", "cloudflare api token, sent as bearer")
	viper.BindEnv("cf_api_key")

	flags.String("cf_api_email", "", "cloudflare account email, sent as X-AUTH-EMAIL")
	viper.BindEnv("cf_api_email", "CF_API_EMAIL", "CF_HEADER_EMAIL")

	flags.String("cf_account_id", "", "cloudflare account id, required by web-analytics")
	viper.BindEnv("cf_account_id")

	flags.String("cf_zone_id", "", "cloudflare zone id")
	viper.BindEnv("cf_zone_id")

	flags.String("cf_api_url", cloudflare.DefaultAPIURL, "cloudflare REST API base url")
	viper.BindEnv("cf_api_url")
	viper.SetDefault("cf_api_url", cloudflare.DefaultAPIURL)

	flags.String("cf_graphql_url", client.DefaultGraphQLEndpoint, "cloudflare GraphQL analytics endpoint")
	viper.BindEnv("cf_graphql_url")
	viper.SetDefault("cf_graphql_url", client.DefaultGraphQLEndpoint)

	flags.Float64("cf_rate_limit", 4, "requests per second against the cloudflare APIs, 0 disables limiting")
	viper.BindEnv("cf_rate_limit")
	viper.SetDefault("cf_rate_limit", 4)

	flags.Duration("cf_timeout", 0, "per request timeout, 0 waits indefinitely")
	viper.BindEnv("cf_timeout")
	viper.SetDefault("cf_timeout", 0)

	flags.Bool("cf_strict_plan", false, "refuse zone traffic queries for unrecognised plans")
	viper.BindEnv("cf_strict_plan")
	viper.SetDefault("cf_strict_plan", false)

	flags.Bool("cf_parallel_passes", false, "run the success and failure traffic queries concurrently")
	viper.BindEnv("cf_parallel_passes")
	viper.SetDefault("cf_parallel_passes", false)

	flags.String("log_level", "info", "log level (debug, info, warn, error)")
	viper.BindEnv("log_level")
	viper.SetDefault("log_level", "info")

	flags.String("log_format", "json", "log format (json, text)")
	viper.BindEnv("log_format")
	viper.SetDefault("log_format", "json")

	flags.String("start", "", "window start, YYYY-MM-DDTHH:MM:SSZ, defaults to 32 days ago")
	viper.BindEnv("start", "CF_START")

	flags.String("end", "", "window end, YYYY-MM-DDTHH:MM:SSZ, defaults to now")
	viper.BindEnv("end", "CF_END")

	viper.BindPFlags(flags)

	cmd.AddCommand(
		newDNSCommand(),
		newPlanCommand(),
		newTrafficsCommand(),
		newWebAnalyticsCommand(),
		newZonesCommand(),
		newServeCommand(),
		newVersionCommand(),
	)
	return cmd
}
