// Package shell implements the interactive prediction loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/cli"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/pkg/utils"
)

// State is a position in the read loop.
type State int

const (
	// Reading prompts for a new request.
	Reading State = iota
	// Collecting gathers lines until the request is complete.
	Collecting
	// Predicting classifies the collected request and prints the response.
	Predicting
	// Exit ends the loop.
	Exit
)

func (s State) String() string {
	switch s {
	case Reading:
		return "reading"
	case Collecting:
		return "collecting"
	case Predicting:
		return "predicting"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Predictor classifies and explains one request.
type Predictor interface {
	PredictWithExplanation(text string, topN int) (*models.Prediction, error)
}

const (
	banner          = "Fake News Detector (type 'q' to quit)"
	multilinePrompt = "Enter a news article text (press Enter on an empty line to run the prediction):"
	singlePrompt    = "Enter a news article text:"
	emptyRequest    = "No text entered. Try again."
	maxLineBytes    = 1 << 20
)

// IsQuit reports whether line is a quit command (q, quit, exit in any case).
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "q", "quit", "exit":
		return true
	default:
		return false
	}
}

// Shell reads requests from an input stream and writes explained predictions.
type Shell struct {
	pred      Predictor
	in        *bufio.Scanner
	out       io.Writer
	topN      int
	multiline bool
	logger    *zap.Logger

	state   State
	pending []string
	eof     bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithTopN sets how many contributions each response lists.
func WithTopN(n int) Option {
	return func(s *Shell) {
		s.topN = n
	}
}

// WithMultiline selects multi-line requests ended by a blank line (true, default)
// or one request per line (false).
func WithMultiline(multiline bool) Option {
	return func(s *Shell) {
		s.multiline = multiline
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) {
		s.logger = l
	}
}

// New returns a shell reading from in and writing to out.
func New(p Predictor, in io.Reader, out io.Writer, opts ...Option) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	s := &Shell{
		pred:      p,
		in:        scanner,
		out:       out,
		multiline: true,
		logger:    zap.NewNop(),
		state:     Reading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current loop state.
func (s *Shell) State() State {
	return s.state
}

// Run drives the loop until a quit command, end of input, or context cancellation.
// At end of input a pending request is predicted before exiting.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s\n\n", banner)
	for s.state != Exit {
		if err := ctx.Err(); err != nil {
			s.state = Exit
			return err
		}
		if err := s.step(); err != nil {
			s.state = Exit
			return err
		}
	}
	return nil
}

func (s *Shell) step() error {
	switch s.state {
	case Reading:
		if s.multiline {
			fmt.Fprintln(s.out, multilinePrompt)
		} else {
			fmt.Fprintln(s.out, singlePrompt)
		}
		s.pending = s.pending[:0]
		s.state = Collecting

	case Collecting:
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			s.eof = true
			if len(s.pending) > 0 {
				s.state = Predicting
			} else {
				s.state = Exit
			}
			return nil
		}
		line := strings.TrimSuffix(s.in.Text(), "\r")
		s.state = s.collect(line)

	case Predicting:
		s.predict(strings.Join(s.pending, "\n"))
		if s.eof {
			s.state = Exit
		} else {
			s.state = Reading
		}
	}
	return nil
}

// collect applies one input line to the pending request and returns the next state.
func (s *Shell) collect(line string) State {
	if IsQuit(line) {
		return Exit
	}
	if !s.multiline {
		s.pending = append(s.pending, line)
		return Predicting
	}
	if line == "" {
		return Predicting
	}
	s.pending = append(s.pending, line)
	return Collecting
}

func (s *Shell) predict(text string) {
	if strings.TrimSpace(text) == "" {
		fmt.Fprintf(s.out, "%s\n\n", emptyRequest)
		return
	}
	p, err := s.pred.PredictWithExplanation(text, s.topN)
	if err != nil {
		s.logger.Warn("prediction failed", zap.String("text", utils.Truncate(text, 80)), zap.Error(err))
		fmt.Fprintf(s.out, "Prediction failed: %v\n%s\n", err, cli.Separator)
		return
	}
	s.logger.Debug("prediction",
		zap.String("label", p.Label.String()),
		zap.Int("contributions", len(p.Contributions)))
	_ = cli.WritePrediction(s.out, p, cli.OutputText)
}
