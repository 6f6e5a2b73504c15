package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/khemingkapat/vlrinspect/lib/configutil"
	"github.com/khemingkapat/vlrinspect/lib/scrapers/vlr"
	"github.com/khemingkapat/vlrinspect/lib/telemetry"
	"github.com/spf13/cobra"
)

type Config struct {
	BaseURL      string `json:"base_url"`
	UserAgent    string `json:"user_agent"`
	HistoryDepth int    `json:"history_depth"`
	// dumps every HTTP exchange into this directory when set
	DebugDumpDir string `json:"debug_dump_dir"`
}

var config Config

var client *vlr.Client

var rootCmd = &cobra.Command{
	Use:   "vlrinspect",
	Short: "vlrinspect scrapes esports match history into analytical tables.",
}

func Execute() {
	var err error
	config, err = configutil.ReadConfig[Config]("vlrinspect.json5")
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	if config.HistoryDepth == 0 {
		config.HistoryDepth = 5
	}

	tel, err := telemetry.SetupFromEnv(context.Background(), "vlrinspect")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up telemetry:", err)
		os.Exit(1)
	}
	defer tel.Shutdown(context.Background())

	client, err = vlr.NewClient(vlr.ClientOptions{
		BaseURL:      config.BaseURL,
		UserAgent:    config.UserAgent,
		DebugDumpDir: config.DebugDumpDir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create client:", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
