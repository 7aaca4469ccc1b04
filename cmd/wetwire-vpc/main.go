// Command wetwire-vpc generates CloudFormation templates for a tiered VPC.
//
// Usage:
//
//	wetwire-vpc build                 Generate <env>_vpc from subnet_mapping.yml
//	wetwire-vpc plan --env prod       Show the planned subnets
//	wetwire-vpc lint                  Check the topology for issues
//	wetwire-vpc version               Show version
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at release time with -ldflags "-X main.version=v1.2.0".
var version = ""

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "wetwire-vpc",
		Short: "Generate tiered VPC CloudFormation templates",
		Long: `wetwire-vpc generates a CloudFormation template for one environment of a
tiered VPC described in a YAML topology:

    subnet_mapping:
      environments:
        uat: 1
      number_of_azs: 2
      service_name_for_subnets:
        dmz:
          web: 101
          nat: 102
        app:
          api: 201

Then generate the template:

    wetwire-vpc build --env uat`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newBuildCmd(),
		newPlanCmd(),
		newListCmd(),
		newGraphCmd(),
		newLintCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wetwire-vpc %s\n", getVersion())
		},
	}
}

// getVersion returns the ldflags version, then the module version recorded by
// "go install @version", then "dev" tagged with the VCS revision it was built
// from, e.g. "dev (3f2a9c1, modified)".
func getVersion() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion(info.Settings)
}

func devVersion(settings []debug.BuildSetting) string {
	var revision, modified string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified == "true" {
		return "dev (" + revision + ", modified)"
	}
	return "dev (" + revision + ")"
}

// newLogger returns a console logger on w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger(), nil
}

// loggerFor builds the logger for cmd from the inherited --log-level flag.
func loggerFor(cmd *cobra.Command) (zerolog.Logger, error) {
	level := "info"
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		level = f.Value.String()
	}
	return newLogger(cmd.ErrOrStderr(), level)
}
