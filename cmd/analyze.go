package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorecard/internal/analyzer"
	"github.com/spigell/resume-scorecard/internal/logger"
	"github.com/spigell/resume-scorecard/internal/presentation"
	"github.com/spigell/resume-scorecard/internal/secrets"
	"github.com/spigell/resume-scorecard/internal/upload"
)

const (
	PromptNewAnalysis = "Start a new analysis"
	PromptTryAgain    = "Try again"
	PromptExit        = "Exit"
)

// fieldServiceURL is taken before the logger package name is shadowed in analyze.
const fieldServiceURL = logger.FieldServiceURL

var errExit = errors.New("exit requested")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume PDF")
	analyzeCmd.Flags().String("job-description", "", "job description text")
	analyzeCmd.Flags().String("job-description-file", "", "file with the job description text")
	analyzeCmd.Flags().Bool("no-interactive", false, "do not prompt; fail when an input is missing or invalid")
	analyzeCmd.Flags().Bool("instant", false, "render the final state without animation")
}

// inputs are the values given on the command line. Empty values are prompted for.
type inputs struct {
	resume         string
	jobDescription string
}

func analyze(cmd *cobra.Command) {
	ctx := cmd.Context()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	interactive := !noInteractive
	instant, _ := cmd.Flags().GetBool("instant")

	in, err := readInputs(cmd)
	if err != nil {
		logger.Fatal("reading inputs", zap.Error(err))
	}

	client, err := newClient(config, logger)
	if err != nil {
		logger.Fatal("creating analysis client", zap.Error(err))
	}

	s, err := newSession(ctx, logger, client, config.Animation.Timing(), cmd.OutOrStdout(), instant)
	if err != nil {
		logger.Fatal("creating presenter", zap.Error(err))
	}
	defer s.Close()

	logger.Info("starting the resume-scorecard",
		zap.String("version", version),
		zap.String(fieldServiceURL, client.APIURL),
	)

	constraints := upload.Constraints{MaxSize: config.Upload.MaxSize}
	for {
		sub, err := collectSubmission(constraints, in, interactive)
		if errors.Is(err, errExit) {
			return
		}
		if err != nil {
			logger.Fatal("preparing submission", zap.Error(err), zap.String("message", upload.UserMessage(err)))
		}

		snap, err := s.run(ctx, sub)
		if err != nil {
			logger.Fatal("running analysis", zap.Error(err))
		}

		if !interactive {
			if snap.Phase == presentation.PhaseError {
				logger.Fatal("exiting", zap.String("reason", "analysis failed"))
			}
			return
		}

		if err := askNext(snap); err != nil {
			return
		}
		if err := s.next(); err != nil {
			logger.Fatal("starting over", zap.Error(err))
		}
		in = inputs{}
	}
}

func readInputs(cmd *cobra.Command) (inputs, error) {
	resume, _ := cmd.Flags().GetString("resume")
	jd, _ := cmd.Flags().GetString("job-description")
	jdFile, _ := cmd.Flags().GetString("job-description-file")

	if jdFile != "" {
		data, err := os.ReadFile(jdFile)
		if err != nil {
			return inputs{}, fmt.Errorf("reading job description file %q: %w", jdFile, err)
		}
		jd = string(data)
	}

	return inputs{resume: resume, jobDescription: jd}, nil
}

func newClient(config *Config, logger *zap.Logger) (*analyzer.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "service token",
		Value:    config.Service.Token,
		File:     config.Service.TokenFile,
		Optional: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ATS_TOKEN_FILE or service.token-file to a readable file)", err)
	}

	return analyzer.New(logger, analyzer.Options{
		URL:       config.Service.URL,
		Timeout:   config.Service.Timeout,
		Token:     token,
		UserAgent: config.Service.UserAgent,
	}), nil
}

// collectSubmission loads the inputs, prompting for missing or invalid values in interactive mode.
func collectSubmission(c upload.Constraints, in inputs, interactive bool) (upload.Submission, error) {
	if !interactive {
		return c.Load(in.resume, in.jobDescription)
	}

	for {
		if err := c.CheckFile(in.resume); err != nil {
			if in.resume != "" {
				fmt.Fprintln(os.Stderr, upload.UserMessage(err))
			}
			path, err := promptValue("Resume PDF path", in.resume, userFacing(c.CheckFile))
			if err != nil {
				return upload.Submission{}, err
			}
			in.resume = path
		}

		if err := c.CheckJobDescription(in.jobDescription); err != nil {
			jd, err := promptValue("Job description", "", userFacing(c.CheckJobDescription))
			if err != nil {
				return upload.Submission{}, err
			}
			in.jobDescription = jd
		}

		sub, err := c.Load(in.resume, in.jobDescription)
		if err == nil {
			return sub, nil
		}
		fmt.Fprintln(os.Stderr, upload.UserMessage(err))
		in.resume = ""
	}
}

// userFacing makes a prompt show the constraint text instead of the log form of the error.
func userFacing(check func(string) error) promptui.ValidateFunc {
	return func(value string) error {
		if err := check(value); err != nil {
			return errors.New(upload.UserMessage(err))
		}
		return nil
	}
}

func promptValue(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}

	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errExit
		}
		return "", fmt.Errorf("prompt %q: %w", label, err)
	}
	return strings.TrimSpace(value), nil
}

// askNext asks whether to continue after a rendered result or a failure. It returns errExit when
// the user is done.
func askNext(snap presentation.Snapshot) error {
	label := "Analysis complete"
	first := PromptNewAnalysis
	if snap.Phase == presentation.PhaseError {
		label = "Analysis failed"
		first = PromptTryAgain
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{first, PromptExit},
	}

	_, selected, err := prompt.Run()
	if err != nil || selected == PromptExit {
		return errExit
	}
	return nil
}
