package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/logger"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable",
	Run: func(cmd *cobra.Command, _ []string) {
		health(cmd)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func health(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, err := newClient(config, logger)
	if err != nil {
		logger.Fatal("creating analysis client", zap.Error(err))
	}

	status, err := client.Health(cmd.Context())
	if err != nil {
		logger.Fatal("checking service health", zap.Error(err), zap.String("url", client.APIURL))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", status.Service, status.Status, client.APIURL)
}
