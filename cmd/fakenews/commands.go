package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/cli"
	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/explain"
	"github.com/hyperjump/fakenews/internal/extract"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/server"
	"github.com/hyperjump/fakenews/internal/shell"
	"github.com/hyperjump/fakenews/internal/store"
	"github.com/hyperjump/fakenews/internal/trainer"
	"github.com/hyperjump/fakenews/pkg/utils"
)

func newTrainCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the vectorizer and classifier on the labeled corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			s, err := store.New(a.cfg.Artifacts)
			if err != nil {
				return err
			}
			defer s.Close()

			progress := cmd.OutOrStdout()
			if format == cli.OutputJSON {
				progress = io.Discard
			}
			t := trainer.New(a.cfg, s, trainer.WithLogger(a.logger), trainer.WithOutput(progress))
			summary, err := t.Train(cmd.Context())
			if err != nil {
				return fmt.Errorf("training failed: %w", err)
			}
			if format == cli.OutputText {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return cli.WriteSummary(cmd.OutOrStdout(), summary, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

// loadPredictor opens the configured store and loads the trained artifacts.
func loadPredictor(ctx context.Context, a *app) (*explain.Predictor, error) {
	s, err := store.New(a.cfg.Artifacts)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	p, err := explain.Load(ctx, s)
	if err != nil {
		if errors.Is(err, store.ErrArtifactNotFound) {
			return nil, fmt.Errorf("%w (run 'fakenews train' first)", err)
		}
		return nil, err
	}
	meta := p.Meta()
	a.logger.Debug("model loaded",
		zap.String("location", s.Location()),
		zap.String("run_id", meta.RunID),
		zap.Int("vocabulary", p.VocabularySize()))
	return p, nil
}

func newPredictCommand(a *app) *cobra.Command {
	var (
		singleLine bool
		topN       int
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify articles typed into an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPredictor(cmd.Context(), a)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top-n") {
				topN = a.cfg.Predict.TopN
			}
			if topN < 0 {
				return fmt.Errorf("%w: %d", explain.ErrInvalidTopN, topN)
			}
			multiline := a.cfg.Predict.MultilineOrDefault() && !singleLine
			sh := shell.New(p, cmd.InOrStdin(), cmd.OutOrStdout(),
				shell.WithTopN(topN),
				shell.WithMultiline(multiline),
				shell.WithLogger(a.logger))
			err = sh.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&singleLine, "single-line", false, "treat every line as a separate article")
	cmd.Flags().IntVarP(&topN, "top-n", "n", explain.DefaultTopN, "number of contributing words to show")
	return cmd
}

func newClassifyCommand(a *app) *cobra.Command {
	var (
		file   string
		output string
		topN   int
	)
	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify one article given as arguments or as a file",
		Example: `  fakenews classify "Senate passes the annual budget"
  fakenews classify --file story.pdf --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			text, err := classifyInput(args, file)
			if err != nil {
				return err
			}
			p, err := loadPredictor(cmd.Context(), a)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top-n") {
				topN = a.cfg.Predict.TopN
			}
			if topN < 0 {
				return fmt.Errorf("%w: %d", explain.ErrInvalidTopN, topN)
			}
			pred, err := p.PredictWithExplanation(text, topN)
			if err != nil {
				return err
			}
			return cli.WritePrediction(cmd.OutOrStdout(), pred, format)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the article from a .txt, .md, .pdf, .docx, .odt, .rtf or .html file")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	cmd.Flags().IntVarP(&topN, "top-n", "n", explain.DefaultTopN, "number of contributing words to show")
	return cmd
}

func classifyInput(args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("give either text arguments or --file, not both")
	case file != "":
		if ext := filepath.Ext(file); !extract.Supported(ext) {
			return "", fmt.Errorf("%w: %s", extract.ErrUnsupportedFormat, file)
		}
		text, err := extract.NewExtractor().Extract(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no text found in %s", file)
		}
		return text, nil
	case len(args) > 0:
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return "", errors.New("no text given")
		}
		return text, nil
	default:
		return "", errors.New("give the article text as arguments or with --file")
	}
}

func newServeCommand(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPredictor(cmd.Context(), a)
			if err != nil {
				return err
			}
			cfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			srv := server.NewServer(p, &cfg, a.cfg.Predict.TopN, a.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving predictions on http://%s\n", srv.Addr())

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				a.logger.Info("Shutting down server")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Stop(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

// Status describes the stored artifacts.
type Status struct {
	Backend        string          `json:"backend"`
	Location       string          `json:"location"`
	Trained        bool            `json:"trained"`
	RunID          string          `json:"run_id,omitempty"`
	TrainedAt      *time.Time      `json:"trained_at,omitempty"`
	Rows           int             `json:"rows,omitempty"`
	TrainRows      int             `json:"train_rows,omitempty"`
	TestRows       int             `json:"test_rows,omitempty"`
	VocabularySize int             `json:"vocabulary_size,omitempty"`
	Classes        [2]models.Label `json:"classes"`
	Converged      bool            `json:"converged"`
	Iterations     int             `json:"iterations,omitempty"`
	SizeBytes      int64           `json:"size_bytes"`
}

func newStatusCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored model and artifact size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			st, err := readStatus(cmd.Context(), a)
			if err != nil {
				return err
			}
			return writeStatus(cmd.OutOrStdout(), st, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func readStatus(ctx context.Context, a *app) (*Status, error) {
	if a.cfg.Artifacts.Backend == "sqlite" {
		if _, err := os.Stat(a.cfg.Artifacts.DatabasePath); errors.Is(err, os.ErrNotExist) {
			return &Status{Backend: a.cfg.Artifacts.Backend, Location: a.cfg.Artifacts.DatabasePath}, nil
		}
	}
	s, err := store.New(a.cfg.Artifacts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	st := &Status{Backend: a.cfg.Artifacts.Backend, Location: s.Location()}
	var paths []string
	if d, ok := s.(*store.DiskStore); ok {
		paths = d.Paths()
	} else {
		paths = []string{a.cfg.Artifacts.DatabasePath}
	}
	if st.SizeBytes, err = store.DiskUsageBytes(paths...); err != nil {
		return nil, fmt.Errorf("disk usage: %w", err)
	}

	art, err := s.Load(ctx)
	if errors.Is(err, store.ErrArtifactNotFound) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrArtifactLoad, err)
	}
	trainedAt := art.Meta.TrainedAt
	st.Trained = true
	st.RunID = art.Meta.RunID
	st.TrainedAt = &trainedAt
	st.Rows = art.Meta.Rows
	st.TrainRows = art.Meta.TrainRows
	st.TestRows = art.Meta.TestRows
	st.VocabularySize = len(art.Pipeline.Vocabulary)
	st.Classes = art.Classifier.Config.Classes
	st.Converged = art.Classifier.Diagnostics.Converged
	st.Iterations = art.Classifier.Diagnostics.Iterations
	return st, nil
}

func writeStatus(w io.Writer, st *Status, format cli.OutputFormat) error {
	if format == cli.OutputJSON {
		return cli.WriteJSON(w, st)
	}
	fmt.Fprintf(w, "Backend:     %s\n", st.Backend)
	fmt.Fprintf(w, "Location:    %s\n", st.Location)
	if !st.Trained {
		fmt.Fprintln(w, "Model:       not trained (run 'fakenews train')")
		return nil
	}
	fmt.Fprintf(w, "Run:         %s\n", st.RunID)
	fmt.Fprintf(w, "Trained at:  %s\n", st.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Rows:        %d (train %d, test %d)\n", st.Rows, st.TrainRows, st.TestRows)
	fmt.Fprintf(w, "Vocabulary:  %d tokens\n", st.VocabularySize)
	fmt.Fprintf(w, "Classes:     %s, %s\n", st.Classes[0], st.Classes[1])
	converged := "yes"
	if !st.Converged {
		converged = "no"
	}
	fmt.Fprintf(w, "Converged:   %s (%d iterations)\n", converged, st.Iterations)
	fmt.Fprintf(w, "Size:        %s\n", utils.FormatBytes(st.SizeBytes))
	return nil
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	cmd.AddCommand(newConfigInitCommand(a))
	return cmd
}

func newConfigInitCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create config directory: %w", err)
				}
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fakenews version %s\n", version)
		},
	}
}
