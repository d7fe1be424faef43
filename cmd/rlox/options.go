package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/rlox/vm"
)

const (
	defaultStackSize = vm.DefaultStackSize

	// traceEnvVar turns tracing on when present, whatever its value.
	traceEnvVar = "DEBUG_STACK_TRACE"
)

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := initConfig(); err != nil {
		return err
	}
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	return nil
}

// initConfig loads the optional config file and RLOX_* environment
// variables. Flags set on the command line take precedence over both.
func initConfig() error {
	viper.SetEnvPrefix("rlox")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".rlox")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return &ioError{err: err}
	}
	return nil
}

// traceEnabled reports whether execution tracing was requested by flag,
// config or the DEBUG_STACK_TRACE environment variable.
func traceEnabled() bool {
	if _, ok := os.LookupEnv(traceEnvVar); ok {
		return true
	}
	return viper.GetBool("trace")
}

// Returns the VM options for the current configuration.
func getVMOptions(out io.Writer, logger zerolog.Logger) []vm.Option {
	return []vm.Option{
		vm.WithStackSize(viper.GetInt("stack-size")),
		vm.WithTrace(traceEnabled()),
		vm.WithOutput(out),
		vm.WithLogger(logger),
	}
}

// newLogger returns a console logger on w at the configured level. Each
// logger carries a fresh run id.
func newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	ctx := zerolog.New(console).Level(level).With().Timestamp()
	if id, err := uuid.NewV4(); err == nil {
		ctx = ctx.Str("run_id", id.String())
	}
	return ctx.Logger()
}
