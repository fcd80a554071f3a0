package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const configName = ".fastx-tools"

// logger is replaced by the root command before any subcommand runs.
var logger = zap.NewNop()

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:   "fastx-tools",
		Short: "Utilities for FASTA, FASTQ and VCF files",
		Long: `fastx-tools removes replicate records from sequence and variant files and
provides small helpers for inspecting FASTA/FASTQ data.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			level := viper.GetString("log.level")
			if verbose {
				level = "debug"
			}
			l, err := newLogger(level, viper.GetString("log.file"))
			if err != nil {
				return newUsageError(cmd, err)
			}
			logger = l
			if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf)); err != nil {
				logger.Debug("could not set GOMAXPROCS", zap.Error(err))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return newUsageError(cmd, err)
	})

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.fastx-tools.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-file", "", "Also write logs to this file (rotated)")
	viper.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", root.PersistentFlags().Lookup("log-file"))

	root.AddCommand(newDedupCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newTSVCmd())
	root.AddCommand(newChromLensCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newConcatCmd())
	root.AddCommand(newFindORFsCmd())
	root.AddCommand(newVCFSearchCmd())
	root.AddCommand(newVCFDownsampleCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads the config file and FASTX_TOOLS_* environment variables.
// A missing default config file is not an error.
func initConfig(cfgFile string) error {
	viper.SetDefault("dedup.hash", "xxh64")
	viper.SetDefault("dedup.threads", 1)
	viper.SetDefault("history.db", defaultHistoryDB())
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("FASTX_TOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fastx-tools", "history.duckdb")
	}
	return filepath.Join(home, ".fastx-tools", "history.duckdb")
}

// newLogger builds a console logger on stderr. When file is set, log entries
// are also written there as JSON with size-based rotation.
func newLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl)

	if file != "" {
		rotate := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotate),
			lvl,
		)
		core = zapcore.NewTee(core, fileCore)
	}

	return zap.New(core), nil
}
