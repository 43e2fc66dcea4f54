package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/endpointkit/internal/domain"
	"github.com/hamed0406/endpointkit/internal/probe"
	"github.com/hamed0406/endpointkit/internal/selector"
)

// endpointsFile is the shape of --file:
//
//	endpoints:
//	  - https://mirror-a.example.com/
//	  - https://mirror-b.example.com/
type endpointsFile struct {
	Endpoints []string `yaml:"endpoints"`
}

func loadEndpoints(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f endpointsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Endpoints, nil
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [urls...]",
		Short: "Probe endpoints and report the fastest",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if path := viper.GetString("file"); path != "" {
				fromFile, err := loadEndpoints(path)
				if err != nil {
					return err
				}
				urls = append(fromFile, urls...)
			}

			debug := viper.GetBool("debug")
			logger := zap.NewNop()
			if debug {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
				defer logger.Sync()
			}

			prober := probe.NewHTTPProber(viper.GetDuration("timeout"))
			if p := viper.GetString("path"); p != "" {
				prober.Path = p
			}
			results := selector.New(logger, probe.NewRunner(prober)).SelectFastest(cmd.Context(), urls, debug)

			if viper.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			return printResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringP("file", "f", "", "YAML file with an endpoints list")
	cmd.Flags().Bool("debug", false, "log every result while ranking")
	cmd.Flags().Duration("timeout", probe.DefaultTimeout, "per-endpoint probe deadline")
	cmd.Flags().String("path", probe.DefaultPath, "path fetched from each endpoint")
	cmd.Flags().Bool("json", false, "print results as JSON")
	return cmd
}

func printResults(w io.Writer, results []domain.RankedResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no endpoints given")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tELAPSED\tSTATUS")
	for _, r := range results {
		status := "ok"
		switch {
		case r.IsFastest:
			status = "FASTEST"
		case r.ErrorMessage != nil:
			status = *r.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URL, fmtMS(r.ElapsedTimeMS), status)
	}
	return tw.Flush()
}

func fmtMS(ms float64) string {
	return time.Duration(ms * float64(time.Millisecond)).Round(10 * time.Microsecond).String()
}
