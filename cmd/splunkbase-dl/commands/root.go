package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"splunkbase-dl/lib/osutil"
	"splunkbase-dl/lib/restyutil"
	"splunkbase-dl/lib/splunkbase"
	"splunkbase-dl/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath *string
	outputDir  *string
	dumpHttp   *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "splunkbase-dl <username> <password> <app_id>-<version>",
	Short: "splunkbase-dl downloads a release of a Splunkbase app.",
	Long: `splunkbase-dl authenticates against splunk.com, confirms the interstitial
page in front of the release, and writes the release package into the output
directory under the name suggested by Splunkbase.`,
	Example:       "  splunkbase-dl admin hunter2 1621-8.0.0",
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(cmd.ErrOrStderr(), *verbose)
	},
	RunE: runDownload,
}

func init() {
	configPath = rootCmd.Flags().String("config", "splunkbase.json5", "The configuration file to read, it is optional.")
	outputDir = rootCmd.Flags().StringP("output", "o", "", "The directory to write the package to. (default: output_dir from config, or the working directory)")
	dumpHttp = rootCmd.Flags().String("dump-http", "", "A directory to write every http request and response to.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		osutil.Fatal("splunkbase-dl failed", err)
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	creds := splunkbase.Credentials{Username: args[0], Password: args[1]}

	// nothing touches the network or the filesystem before this succeeds
	target, err := splunkbase.ParseTarget(args[2])
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	tel, err := telemetry.Setup(ctx, "splunkbase-dl", cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}()

	opts := cfg.ClientOptions()
	if *dumpHttp != "" {
		out, err := restyutil.NewFilesystemOutput(*dumpHttp)
		if err != nil {
			return fmt.Errorf("create http dump directory: %w", err)
		}
		opts.DumpOutput = out
	}

	client, err := splunkbase.NewClient(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}

	artifact, err := client.Download(ctx, creds, target, cfg.OutputDir)
	if err != nil {
		return err
	}
	if tel.Enabled() {
		telemetry.RecordPerfStats(ctx)
	}

	printSummary(cmd.OutOrStdout(), target, artifact)
	return nil
}

func printSummary(w io.Writer, target splunkbase.Target, artifact splunkbase.Artifact) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"App", "Version", "File", "Bytes", "SHA256"})
	t.AppendRow(table.Row{target.AppId, target.Version, artifact.Path, artifact.Size, artifact.Sha256})
	t.Render()
}
