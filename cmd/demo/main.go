// Command demo is a small example application for the appsettings package:
// it defines a config and a settings container, loads them from the
// standard locations (or paths given on the command line), prints the
// resulting values, and updates a settings parameter.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"appsettings"
)

// ServerSection holds the demo's server parameters.
type ServerSection struct {
	appsettings.ConfigSectionBase

	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ApplyDefaults implements appsettings.Defaulter.
func (s *ServerSection) ApplyDefaults() {
	s.Host = "localhost"
	s.Port = 8080
}

// DemoConfig is the demo's root config container; it loads from
// ~/.demo/config.toml by default.
type DemoConfig struct {
	appsettings.ConfigBase

	Server ServerSection `toml:"server"`
}

// UISection holds the demo's presentation settings.
type UISection struct {
	appsettings.SettingsSectionBase

	Theme    string `json:"theme"`
	FontSize int    `json:"font_size"`
}

// ApplyDefaults implements appsettings.Defaulter.
func (s *UISection) ApplyDefaults() {
	s.Theme = "dark"
	s.FontSize = 12
}

// DemoSettings is the demo's root settings container; it loads from
// ~/.demo/settings.json by default.
type DemoSettings struct {
	appsettings.SettingsBase

	Name string    `json:"name"`
	UI   UISection `json:"ui"`
}

// ApplyDefaults implements appsettings.Defaulter.
func (s *DemoSettings) ApplyDefaults() {
	s.Name = "demo"
}

var (
	configPath   string
	settingsPath string
	folderPath   string
	verbose      bool
)

func main() {
	appsettings.RegisterContainerClass[DemoConfig]("demo.DemoConfig")
	appsettings.RegisterContainerClass[DemoSettings]("demo.DemoSettings")

	root := &cobra.Command{
		Use:           "demo",
		Short:         "appsettings example application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			appsettings.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return applyPaths()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config_filepath", "c", "", "path of the configuration file")
	root.PersistentFlags().StringVarP(&settingsPath, "settings_filepath", "s", "", "path of the settings file")
	root.PersistentFlags().StringVarP(&folderPath, "parameters_folderpath", "p", "", "common folder of config and settings files")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log advisories to stderr")

	root.AddCommand(showCommand(), setNameCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

// applyPaths wires command-line paths into the containers. The folder
// option resolves the concrete container classes from the files
// themselves.
func applyPaths() error {
	if folderPath != "" {
		args := []string{"-p", folderPath}
		if err := appsettings.ParametersFolderpathFromCLI(args, false); err != nil {
			return err
		}
	}
	if configPath != "" {
		if err := appsettings.SetFilepath[DemoConfig](configPath, false); err != nil {
			return err
		}
	}
	if settingsPath != "" {
		if err := appsettings.SetFilepath[DemoSettings](settingsPath, false); err != nil {
			return err
		}
	}
	return nil
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load config and settings and print the resulting values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appsettings.Load[DemoConfig]()
			if err != nil {
				return err
			}
			settings, err := appsettings.Load[DemoSettings]()
			if err != nil {
				return err
			}

			fmt.Printf("config file:   %s\n", appsettings.Filepath[DemoConfig]())
			fmt.Printf("server:        %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("settings file: %s\n", appsettings.Filepath[DemoSettings]())
			fmt.Printf("name:          %s\n", settings.Name)
			fmt.Printf("ui:            theme=%s font_size=%d\n", settings.UI.Theme, settings.UI.FontSize)
			return nil
		},
	}
}

func setNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-name <name>",
		Short: "Update the name setting and persist it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := appsettings.Load[DemoSettings](); err != nil {
				return err
			}
			updated, err := appsettings.Update[DemoSettings](map[string]any{"name": args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("name is now %q (saved to %s)\n", updated.Name, appsettings.Filepath[DemoSettings]())
			return nil
		},
	}
}
