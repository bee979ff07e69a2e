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
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/langtranslator/internal/translator"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "langtranslator",
	Short: "CLI for the Watson Language Translator v2 API",
	Long: `A command line client for the IBM Watson Language Translator v2 API.

Translate documents and CSV files, identify languages, and manage custom
translation models.

Credentials are read from flags, from a config file ($HOME/.langtranslator.yaml),
from a .env file, or from LANGUAGE_TRANSLATOR_* environment variables:

  LANGUAGE_TRANSLATOR_URL
  LANGUAGE_TRANSLATOR_USERNAME
  LANGUAGE_TRANSLATOR_PASSWORD
  LANGUAGE_TRANSLATOR_TOKEN`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log-level"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:        time.RFC3339Nano,
		DisableLevelTruncation: true,
		FullTimestamp:          true,
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.langtranslator.yaml)")
	pf.String("url", translator.DefaultURL, "Service endpoint URL")
	pf.String("username", "", "Service username")
	pf.String("password", "", "Service password")
	pf.String("token", "", "Bearer token (used instead of username/password)")
	pf.Duration("timeout", 60*time.Second, "Per-request timeout")
	pf.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	pf.StringP("output", "O", "table", "Output format: table, json, yaml")
	pf.String("db", "./data/langtranslator.db", "Database path for the call history and model registry")
	pf.Bool("no-history", false, "Do not record calls in the history database")
	pf.String("metrics-file", "", "Write Prometheus metrics for this run to a textfile")
	pf.Bool("learning-opt-out", false, "Ask the service not to use request data for training")

	for _, name := range []string{
		"url", "username", "password", "token", "timeout", "log-level",
		"output", "db", "no-history", "metrics-file", "learning-opt-out",
	} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".langtranslator")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(strings.ToUpper(translator.ServiceName))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
		return
	}
	logrus.Debugf("loaded config from '%s'", viper.ConfigFileUsed())
}

func setupLogging(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(logLevel)
	return nil
}
