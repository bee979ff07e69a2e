// Package batch translates several independent inputs concurrently through
// a single client.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valpere/langtranslator/internal/translator"
)

const (
	DefaultWorkers = 4
	DefaultTimeout = 60 * time.Second
)

// Translator is the part of translator.LanguageTranslator a Runner needs.
type Translator interface {
	Translate(ctx context.Context, opts *translator.TranslateOptions) (*translator.TranslationResult, error)
}

// Job is one translate call. Name identifies it in logs and outcomes.
type Job struct {
	Name    string
	Options *translator.TranslateOptions
}

// Outcome holds exactly one of Result or Err.
type Outcome struct {
	Name    string
	Result  *translator.TranslationResult
	Err     error
	Latency time.Duration
}

type Config struct {
	Workers int
	Timeout time.Duration
}

type Runner struct {
	client Translator
	config Config
	logger *logrus.Entry
}

func New(client Translator, config Config) *Runner {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Runner{
		client: client,
		config: config,
		logger: logrus.WithField("component", "batch"),
	}
}

// Run executes jobs with at most Workers calls in flight and returns the
// outcomes in input order. Failed jobs are not retried.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	type indexed struct {
		index   int
		outcome Outcome
	}
	results := make(chan indexed, len(jobs))
	sem := make(chan struct{}, r.config.Workers)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(index int, job Job) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- indexed{index: index, outcome: Outcome{Name: job.Name, Err: ctx.Err()}}
				return
			}

			results <- indexed{index: index, outcome: r.runOne(ctx, job)}
		}(i, job)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		outcomes[res.index] = res.outcome
	}
	return outcomes
}

func (r *Runner) runOne(ctx context.Context, job Job) Outcome {
	jobCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := r.client.Translate(jobCtx, job.Options)
	out := Outcome{Name: job.Name, Result: res, Err: err, Latency: time.Since(start)}
	if err != nil {
		out.Result = nil
		r.logger.WithError(err).WithField("job", job.Name).Warn("translation failed")
	} else {
		r.logger.WithFields(logrus.Fields{"job": job.Name, "latency": out.Latency}).Debug("translation done")
	}
	return out
}

// Failed counts the outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
