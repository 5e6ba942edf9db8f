package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/presentation"
	"github.com/spigell/resume-scorecard/internal/result"
	"github.com/spigell/resume-scorecard/internal/upload"
)

var renderCmd = &cobra.Command{
	Use:   "render <result.json>",
	Short: "Render a saved analysis service response",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		render(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Bool("animate", false, "animate the score like the analyze command")
}

// fileAnalyzer serves a saved response instead of calling the service.
type fileAnalyzer struct {
	path string
}

func (f fileAnalyzer) Analyze(context.Context, upload.Submission) (*result.AnalysisResult, error) {
	return result.ReadFile(f.path)
}

func render(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	animate, _ := cmd.Flags().GetBool("animate")

	s, err := newSession(cmd.Context(), logger, fileAnalyzer{path: path}, config.Animation.Timing(), cmd.OutOrStdout(), !animate)
	if err != nil {
		logger.Fatal("creating presenter", zap.Error(err))
	}
	defer s.Close()

	snap, err := s.run(cmd.Context(), upload.Submission{FileName: path})
	if err != nil {
		logger.Fatal("rendering result", zap.Error(err))
	}
	if snap.Phase == presentation.PhaseError {
		logger.Fatal("exiting", zap.String("reason", "result could not be rendered"), zap.String("file", path))
	}
}
