/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/valpere/langtranslator/internal"
	"github.com/valpere/langtranslator/internal/metrics"
	"github.com/valpere/langtranslator/internal/service"
	"github.com/valpere/langtranslator/internal/store"
	"github.com/valpere/langtranslator/internal/translator"
)

// session bundles what a single command run needs: the API client, the
// history database and the metrics registry.
type session struct {
	client   *translator.LanguageTranslator
	db       *store.Store
	registry *prometheus.Registry
	logger   *logrus.Entry
}

func newSession() (*session, error) {
	registry := prometheus.NewRegistry()
	logger := logrus.WithField("component", "cli")

	opts := []service.Option{
		service.WithTimeout(viper.GetDuration("timeout")),
		service.WithLogger(logrus.WithField("component", "service")),
		service.WithMetrics(metrics.New(registry)),
		service.WithUserAgent("langtranslator/" + version),
	}
	if viper.GetBool("learning-opt-out") {
		opts = append(opts, service.WithHeader("X-Watson-Learning-Opt-Out", "true"))
	}

	svc, err := service.NewClient(viper.GetString("url"), authenticator(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s := &session{
		client:   translator.New(svc),
		registry: registry,
		logger:   logger,
	}

	if dbPath := viper.GetString("db"); !viper.GetBool("no-history") && dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			// History is optional; the command still runs without it.
			logger.WithError(err).Warn("call history disabled")
		} else {
			s.db = db
		}
	}
	return s, nil
}

func authenticator() service.Authenticator {
	if token := viper.GetString("token"); token != "" {
		return service.BearerToken{Token: token}
	}
	return service.BasicAuth{
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
	}
}

// Close writes the metrics textfile, if requested, and closes the database.
func (s *session) Close() {
	if path := viper.GetString("metrics-file"); path != "" {
		if err := metrics.WriteTextfile(path, s.registry); err != nil {
			s.logger.WithError(err).Warn("failed to write metrics file")
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.WithError(err).Warn("failed to close database")
		}
	}
}

// record journals one call. Journal failures are logged, never returned.
func (s *session) record(ctx context.Context, operation, subject string, start time.Time, callErr error) {
	if s.db == nil {
		return
	}
	rec := internal.CallRecord{
		Operation:  operation,
		Subject:    truncate(subject, 80),
		StatusCode: statusOf(callErr),
		LatencyMs:  time.Since(start).Milliseconds(),
		Timestamp:  start,
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}
	if err := s.db.SaveCall(ctx, rec); err != nil {
		s.logger.WithError(err).Warn("failed to record call")
	}
}

// remember upserts a model into the local registry.
func (s *session) remember(ctx context.Context, m *translator.TranslationModel) {
	if s.db == nil || m == nil || m.ModelID == "" {
		return
	}
	err := s.db.SaveModel(ctx, store.ModelEntry{
		ModelID:     m.ModelID,
		Name:        m.Name,
		BaseModelID: m.BaseModelID,
		Source:      m.Source,
		Target:      m.Target,
		Status:      m.Status,
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to update model registry")
	}
}

// statusOf maps a call result to the HTTP status stored in the journal;
// 0 means no response was received.
func statusOf(err error) int {
	if err == nil {
		return 200
	}
	if se, ok := service.AsServiceError(err); ok {
		return se.StatusCode
	}
	return 0
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// canonicalLang validates a language code and returns it in BCP 47 form.
// An empty code stays empty.
func canonicalLang(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	switch format := viper.GetString("output"); format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
