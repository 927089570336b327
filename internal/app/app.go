package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-common-idgen/internal/config"
	"katydid-common-idgen/internal/logger"
	"katydid-common-idgen/internal/server"
	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/domain"
	"katydid-common-idgen/pkg/idgen/registry"
	"katydid-common-idgen/pkg/idgen/snowflake"
)

const EnvStage = "ENVIRONMENT"

type options struct {
	cfgFile      string
	workerID     int64
	dataCenterID int64
	count        int
}

// NewRootCmd 构建命令行入口
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "snowflaked",
		Short:         "Snowflake ID generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Path to the configuration file (optional)")

	root.AddCommand(
		newServeCmd(opts),
		newNextCmd(opts),
		newParseCmd(),
	)
	return root
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ID service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}

	devMode := strings.ToLower(os.Getenv(EnvStage)) != "prod"
	l, err := logger.New(cfg.Logger, devMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer l.Sync()

	r := registry.New(
		registry.WithLogger(l),
		registry.WithGeneratorOptions(snowflake.WithMetrics(cfg.Generator.EnableMetrics)),
	)

	// 启动前创建默认生成器，身份非法时尽早失败
	if _, err := r.GetOrCreate(cfg.Generator.WorkerID, cfg.Generator.DataCenterID); err != nil {
		return fmt.Errorf("init default generator: %w", err)
	}

	l.Info("starting snowflake service",
		zap.Int64("worker_id", cfg.Generator.WorkerID),
		zap.Int64("data_center_id", cfg.Generator.DataCenterID))

	return server.New(cfg, r, l).Run(ctx)
}

func newNextCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print newly generated IDs, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("create config: %w", err)
			}

			workerID, dataCenterID := cfg.Generator.WorkerID, cfg.Generator.DataCenterID
			if cmd.Flags().Changed("worker-id") {
				workerID = opts.workerID
			}
			if cmd.Flags().Changed("datacenter-id") {
				dataCenterID = opts.dataCenterID
			}

			gen, err := snowflake.New(workerID, dataCenterID)
			if err != nil {
				return err
			}
			ids, err := gen.NextBatch(opts.count)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.workerID, "worker-id", 0, "Worker ID (0-31), overrides config")
	cmd.Flags().Int64Var(&opts.dataCenterID, "datacenter-id", 0, "Data center ID (0-7), overrides config")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of IDs to generate")
	return cmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <id>",
		Short: "Decode an ID into its components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			info, err := id.Info()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				*core.IDInfo
				Time string `json:"time"`
			}{
				IDInfo: info,
				Time:   id.Time().UTC().Format(time.RFC3339Nano),
			})
		},
	}
}
