package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func (m colorMode) enabled(f *os.File) bool {
	switch m {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		return isTerminal(f)
	}
}

// useColor resolves the --color flag for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := readColorMode(value)
	if err != nil {
		return false, err
	}
	return mode.enabled(f), nil
}

// setupLogging configures commonlog from -v and --log-file. Logs default to
// warnings on stderr, which stays free while stdout carries LSP traffic.
func setupLogging(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	verbose, err := flags.GetCount("verbose")
	if err != nil {
		return err
	}
	logFile, err := flags.GetString("log-file")
	if err != nil {
		return err
	}
	on, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !on

	var path *string
	if logFile != "" {
		path = &logFile
	}
	commonlog.Configure(verbose-1, path)
	return nil
}
