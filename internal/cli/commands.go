package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lablabs/cloudflare-analytics/internal/analytics"
	"github.com/lablabs/cloudflare-analytics/internal/limiter"
	"github.com/lablabs/cloudflare-analytics/internal/models"
	"github.com/lablabs/cloudflare-analytics/internal/routes"
	"github.com/lablabs/cloudflare-analytics/internal/scope"
)

type dnsRecordOutput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func newDNSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dns",
		Short: "List the zone's A and CNAME records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			inventory := svc.DNSRecords(cmd.Context())
			out := make([]dnsRecordOutput, 0, len(inventory))
			for _, r := range inventory {
				out = append(out, dnsRecordOutput{Name: r.Name, Type: r.Type, Content: r.Content})
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the zone's plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			plan := svc.DomainPlan(cmd.Context())
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"plan": plan,
				"tier": models.ClassifyPlan(plan).String(),
			})
		},
	}
}

func newTrafficsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "traffics",
		Short: "Aggregate zone traffic per date and host (Business plan)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			agg, err := svc.Traffics(cmd.Context(), viper.GetString("start"), viper.GetString("end"))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agg)
		},
	}
}

func newWebAnalyticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "web-analytics",
		Short: "Aggregate browser page loads per date and host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			agg, err := svc.WebAnalytics(cmd.Context(), viper.GetString("start"), viper.GetString("end"))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agg)
		},
	}
}

func newZonesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List zones visible to the credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := buildScope(false)
			if err != nil {
				return err
			}

			zones, err := analytics.ListZones(cmd.Context(), sc, buildOptions())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), zones)
		},
	}
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics API and prometheus metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			metricsDenylist := []string{}
			if len(viper.GetString("metrics_denylist")) > 0 {
				metricsDenylist = strings.Split(viper.GetString("metrics_denylist"), ",")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sc := svc.Scope()
			return routes.RunExporter(ctx, svc, sc.ZoneID(), sc.AccountID(), routes.Config{
				Listen:          viper.GetString("listen"),
				MetricsPath:     viper.GetString("metrics_path"),
				RefreshInterval: viper.GetDuration("refresh_interval"),
				MetricsDenylist: metricsDenylist,
				Start:           viper.GetString("start"),
				End:             viper.GetString("end"),
			})
		},
	}

	flags := cmd.Flags()

	flags.String("listen", ":8080", "listen on addr:port ( default :8080), omit addr to listen on all interfaces")
	viper.BindEnv("listen", "CF_LISTEN")
	viper.SetDefault("listen", ":8080")

	flags.String("metrics_path", "/metrics", "path for metrics, default /metrics")
	viper.BindEnv("metrics_path")
	viper.SetDefault("metrics_path", "/metrics")

	flags.Duration("refresh_interval", routes.DefaultRefreshInterval, "interval between analytics refreshes")
	viper.BindEnv("refresh_interval")
	viper.SetDefault("refresh_interval", routes.DefaultRefreshInterval)

	flags.String("metrics_denylist", "", "metrics to not expose, comma delimited list")
	viper.BindEnv("metrics_denylist")
	viper.SetDefault("metrics_denylist", "")

	viper.BindPFlags(flags)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

// buildScope reads credentials and identifiers from viper. The zone is only
// required when requireZone is set.
func buildScope(requireZone bool) (scope.Scope, error) {
	sc, err := scope.New(viper.GetString("cf_api_key"), viper.GetString("cf_api_email"))
	if err != nil {
		return scope.Scope{}, err
	}

	if account := viper.GetString("cf_account_id"); account != "" {
		if sc, err = sc.WithAccount(account); err != nil {
			return scope.Scope{}, err
		}
	}

	zone := viper.GetString("cf_zone_id")
	if zone == "" && !requireZone {
		return sc, nil
	}
	return sc.WithZone(zone)
}

func buildOptions() analytics.Options {
	limiter.Configure(viper.GetFloat64("cf_rate_limit"))

	return analytics.Options{
		APIURL:         viper.GetString("cf_api_url"),
		GraphQLURL:     viper.GetString("cf_graphql_url"),
		RateLimit:      viper.GetFloat64("cf_rate_limit"),
		Timeout:        viper.GetDuration("cf_timeout"),
		StrictPlan:     viper.GetBool("cf_strict_plan"),
		ParallelPasses: viper.GetBool("cf_parallel_passes"),
	}
}

func newService() (*analytics.Service, error) {
	sc, err := buildScope(true)
	if err != nil {
		return nil, err
	}
	return analytics.NewService(sc, buildOptions())
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
