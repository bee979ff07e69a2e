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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/langtranslator/internal/translator"
)

var (
	modelsSource      string
	modelsTarget      string
	modelsDefault     string
	modelsRegistry    bool
	modelsAll         bool
	createBase        string
	createName        string
	createGlossary    string
	createParallel    string
	createMonolingual string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage translation models",
	Long:  `List, inspect, create and delete translation models.`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available models",
	Long: `List models known to the service, optionally filtered.

With --registry the local record of models created through this tool is
shown instead and no request is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if modelsRegistry {
			if s.db == nil {
				return fmt.Errorf("--registry needs the history database (check --db and --no-history)")
			}
			entries, err := s.db.ListModels(ctx, modelsAll)
			if err != nil {
				return fmt.Errorf("failed to list registry: %w", err)
			}
			return render(os.Stdout, entries, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "MODEL ID\tNAME\tBASE\tSTATUS\tDELETED\tUPDATED")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%s\n",
						e.ModelID, e.Name, e.BaseModelID, e.Status, e.Deleted, e.UpdatedAt.Format("2006-01-02 15:04"))
				}
			})
		}

		opts, err := listModelsOptions()
		if err != nil {
			return err
		}

		start := time.Now()
		models, err := s.client.ListModels(ctx, opts)
		s.record(ctx, "list_models", "", start, err)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		return render(os.Stdout, models, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "MODEL ID\tSOURCE\tTARGET\tBASE\tDOMAIN\tSTATUS\tDEFAULT")
			for _, m := range models.Models {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
					m.ModelID, m.Source, m.Target, m.BaseModelID, m.Domain, m.Status, m.DefaultModel)
			}
		})
	},
}

func listModelsOptions() (*translator.ListModelsOptions, error) {
	src, err := canonicalLang(modelsSource)
	if err != nil {
		return nil, err
	}
	tgt, err := canonicalLang(modelsTarget)
	if err != nil {
		return nil, err
	}
	opts := &translator.ListModelsOptions{Source: src, Target: tgt}
	if modelsDefault != "" {
		b, err := strconv.ParseBool(modelsDefault)
		if err != nil {
			return nil, fmt.Errorf("invalid --default value %q: want true or false", modelsDefault)
		}
		opts.Default = &b
	}
	return opts, nil
}

var modelsGetCmd = &cobra.Command{
	Use:   "get <model-id>",
	Short: "Show one model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		start := time.Now()
		model, err := s.client.GetModel(ctx, &translator.GetModelOptions{ModelID: args[0]})
		s.record(ctx, "get_model", args[0], start, err)
		if err != nil {
			return fmt.Errorf("failed to get model: %w", err)
		}
		if !model.DefaultModel {
			s.remember(ctx, model)
		}
		return renderModel(model)
	},
}

var modelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Train a custom model from a base model",
	Long: `Create a custom model by uploading training files for a base model.

At least one of --glossary, --parallel or --monolingual is required.
Glossaries and parallel corpora are TMX files; the monolingual corpus is
plain UTF-8 text in the target language.

Example:
  langtranslator models create --base en-es --name legal --glossary terms.tmx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createGlossary == "" && createParallel == "" && createMonolingual == "" {
			return fmt.Errorf("at least one of --glossary, --parallel or --monolingual is required")
		}

		opts := &translator.CreateModelOptions{BaseModelID: createBase, Name: createName}
		var closers []io.Closer
		defer func() {
			for _, c := range closers {
				c.Close()
			}
		}()
		attach := func(path string, r *io.Reader, name *string) error {
			if path == "" {
				return nil
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			closers = append(closers, f)
			*r, *name = f, filepath.Base(path)
			return nil
		}
		if err := attach(createGlossary, &opts.ForcedGlossary, &opts.ForcedGlossaryFilename); err != nil {
			return err
		}
		if err := attach(createParallel, &opts.ParallelCorpus, &opts.ParallelCorpusFilename); err != nil {
			return err
		}
		if err := attach(createMonolingual, &opts.MonolingualCorpus, &opts.MonolingualCorpusFilename); err != nil {
			return err
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		start := time.Now()
		model, err := s.client.CreateModel(ctx, opts)
		s.record(ctx, "create_model", createBase, start, err)
		if err != nil {
			return fmt.Errorf("failed to create model: %w", err)
		}
		if model.BaseModelID == "" {
			model.BaseModelID = createBase
		}
		s.remember(ctx, model)
		return renderModel(model)
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <model-id>",
	Short: "Delete a custom model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		start := time.Now()
		err = s.client.DeleteModel(ctx, &translator.DeleteModelOptions{ModelID: args[0]})
		s.record(ctx, "delete_model", args[0], start, err)
		if err != nil {
			return fmt.Errorf("failed to delete model: %w", err)
		}
		if s.db != nil {
			if err := s.db.MarkModelDeleted(ctx, args[0]); err != nil {
				s.logger.WithError(err).Warn("failed to update model registry")
			}
		}
		fmt.Printf("Deleted model: %s\n", args[0])
		return nil
	},
}

func renderModel(m *translator.TranslationModel) error {
	return render(os.Stdout, m, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Model ID:\t%s\n", m.ModelID)
		fmt.Fprintf(tw, "Name:\t%s\n", m.Name)
		fmt.Fprintf(tw, "Source:\t%s\n", m.Source)
		fmt.Fprintf(tw, "Target:\t%s\n", m.Target)
		fmt.Fprintf(tw, "Base model:\t%s\n", m.BaseModelID)
		fmt.Fprintf(tw, "Domain:\t%s\n", m.Domain)
		fmt.Fprintf(tw, "Owner:\t%s\n", m.Owner)
		fmt.Fprintf(tw, "Status:\t%s\n", m.Status)
		fmt.Fprintf(tw, "Customizable:\t%v\n", m.Customizable)
		fmt.Fprintf(tw, "Default:\t%v\n", m.DefaultModel)
	})
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsListCmd.Flags().StringVar(&modelsSource, "source", "", "Only models with this source language")
	modelsListCmd.Flags().StringVar(&modelsTarget, "target", "", "Only models with this target language")
	modelsListCmd.Flags().StringVar(&modelsDefault, "default", "", "Only default (true) or non-default (false) models")
	modelsListCmd.Flags().BoolVar(&modelsRegistry, "registry", false, "List the local model registry instead of calling the service")
	modelsListCmd.Flags().BoolVar(&modelsAll, "all", false, "With --registry, include deleted models")

	modelsCreateCmd.Flags().StringVar(&createBase, "base", "", "Base model ID (required)")
	modelsCreateCmd.Flags().StringVar(&createName, "name", "", "Name for the new model")
	modelsCreateCmd.Flags().StringVar(&createGlossary, "glossary", "", "Forced glossary TMX file")
	modelsCreateCmd.Flags().StringVar(&createParallel, "parallel", "", "Parallel corpus TMX file")
	modelsCreateCmd.Flags().StringVar(&createMonolingual, "monolingual", "", "Monolingual corpus text file")
	modelsCreateCmd.MarkFlagRequired("base")

	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsGetCmd)
	modelsCmd.AddCommand(modelsCreateCmd)
	modelsCmd.AddCommand(modelsDeleteCmd)
}
