// Command pyrite is the command-line interface to the pyrite interpreter:
// it runs and checks script files, provides an interactive loop and serves
// LSP for editors.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyritelang/pyrite/pkg/buildinfo"
	"github.com/pyritelang/pyrite/pkg/logutil"
	"github.com/pyritelang/pyrite/pkg/lsp"
	"github.com/pyritelang/pyrite/pkg/shell"
)

var (
	configPath string
	scriptDirs []string
	logPath    string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configPath, scriptDirs, logPath = "", nil, ""
	exit := 0
	root := &cobra.Command{
		Use:           "pyrite",
		Short:         "The pyrite script interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML configuration file")
	root.PersistentFlags().StringArrayVar(&scriptDirs, "scripts", nil,
		"additional script search directory (repeatable)")
	root.PersistentFlags().StringVar(&logPath, "log", "",
		"write the debug log to this file")

	root.AddCommand(runCmd(&exit), replCmd(&exit), checkCmd(&exit), lspCmd(), versionCmd())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pyrite:", err)
		return 2
	}
	return exit
}

func runCmd(exit *int) *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT [args...]",
		Short: "Run a script file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			eng := shell.InitEngine(cfg, os.Stdout, os.Stderr)
			*exit = shell.RunPath(eng, os.Stderr, args[0], args[1:], false)
			return nil
		},
	}
}

func replCmd(exit *int) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			eng := shell.InitEngine(cfg, os.Stdout, os.Stderr)
			*exit = shell.Interact(eng, cfg, [3]*os.File{os.Stdin, os.Stdout, os.Stderr})
			return nil
		},
	}
}

func checkCmd(exit *int) *cobra.Command {
	jsonOut := false
	cmd := &cobra.Command{
		Use:   "check SCRIPT...",
		Short: "Parse scripts without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}
			*exit = shell.CheckPaths(os.Stdout, os.Stderr, args, jsonOut)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "report errors as JSON")
	return cmd
}

func lspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Serve the language server protocol over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(); err != nil {
				return err
			}
			return lsp.Run(os.Stdin, os.Stdout)
		},
	}
}

func versionCmd() *cobra.Command {
	jsonOut := false
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOut {
				b, _ := json.Marshal(buildinfo.Value)
				fmt.Println(string(b))
			} else {
				fmt.Println(buildinfo.Value.Version)
			}
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}

// setup loads the configuration and redirects the debug log, honoring the
// global flags.
func setup() (*shell.Config, error) {
	if logPath != "" {
		if err := logutil.SetOutputFile(logPath); err != nil {
			return nil, err
		}
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Scripts = append(cfg.Scripts, scriptDirs...)
	return cfg, nil
}

// loadConfig reads the file named by --config, or the default path. A
// missing file is only an error when named explicitly.
func loadConfig() (*shell.Config, error) {
	if configPath != "" {
		return shell.LoadConfig(configPath)
	}
	path, err := shell.DefaultConfigPath()
	if err != nil {
		return &shell.Config{}, nil
	}
	cfg, err := shell.LoadConfig(path)
	if err != nil {
		return &shell.Config{}, nil
	}
	return cfg, nil
}
