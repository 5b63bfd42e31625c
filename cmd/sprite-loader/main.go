package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/logging"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/gamedata"
	"github.com/spf13/cobra"
)

const version = "0.2.0"

var (
	inputPath   string
	outputPath  string
	inputDir    string
	tablePath   string
	logLevel    string
	overwrite   bool
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("sprite-loader %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func newLogger() hclog.Logger {
	return logging.NewLogger("sprite-loader", logLevel, nil)
}

func newLoader() *pkg.Loader {
	return pkg.NewLoader(newLogger(), pkg.Tables{})
}

// datPath appends the .dat suffix when missing.
func datPath(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".dat") {
		return path + ".dat"
	}
	return path
}

// report prints the outcome and returns the process exit code.
func report(outcome gamedata.Outcome, success, filename string) int {
	if outcome == gamedata.OutcomeSuccess {
		color.New(color.FgGreen).Println(success)
		return 0
	}
	color.New(color.FgRed).Fprintln(os.Stderr, outcome.Message(filename))
	return 1
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func init() {
	rootCmd = &cobra.Command{
		Use:           "sprite-loader",
		Short:         "Extract and replace the images embedded in gamedata.dat",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if versionFlag {
				printVersion()
				return
			}
			_ = cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Unpack every embedded image as image<N>.png",
		Run: func(cmd *cobra.Command, args []string) {
			outcome := newLoader().Extract(inputPath, outputPath, overwrite)
			os.Exit(report(outcome, "Successfully unpacked sprites.", ""))
		},
	}
	extractCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input .dat file (required)")
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output directory (required)")
	extractCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Allow overwriting existing images")
	requireFlags(extractCmd, "input", "output")

	packCmd := &cobra.Command{
		Use:   "pack",
		Short: "Write image<N>.png files from a directory back into a copy of the .dat file",
		Run: func(cmd *cobra.Command, args []string) {
			outcome, filename := newLoader().Replace(inputPath, datPath(outputPath), inputDir)
			os.Exit(report(outcome, "Successfully packed sprites.", filename))
		},
	}
	packCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input .dat file (required)")
	packCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .dat file (required)")
	packCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory holding image<N>.png files (required)")
	requireFlags(packCmd, "input", "output", "dir")

	invisibleCmd := &cobra.Command{
		Use:   "invisible",
		Short: "Create a .dat file with the invisible table applied",
		Run: func(cmd *cobra.Command, args []string) {
			loader := newLoader()
			loader.Tables.Invisible = tablePath
			outcome := loader.CreateInvisible(inputPath, datPath(outputPath))
			os.Exit(report(outcome, "Successfully created invisible dat.", ""))
		},
	}

	trailsCmd := &cobra.Command{
		Use:   "invisible-trails",
		Short: "Create a .dat file with the invisible trails table applied",
		Run: func(cmd *cobra.Command, args []string) {
			loader := newLoader()
			loader.Tables.InvisibleTrails = tablePath
			outcome := loader.CreateInvisibleTrails(inputPath, datPath(outputPath))
			os.Exit(report(outcome, "Successfully created invisible with trails dat.", ""))
		},
	}

	for _, cmd := range []*cobra.Command{invisibleCmd, trailsCmd} {
		cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input .dat file (required)")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output .dat file (required)")
		cmd.Flags().StringVar(&tablePath, "table", "", "Transform table file (default: looked up in $SPRITE_TABLE_DIR)")
		requireFlags(cmd, "input", "output")
	}

	tableCmd := &cobra.Command{
		Use:   "make-table",
		Short: "Build a transform table from image<N>.png replacements",
		Run: func(cmd *cobra.Command, args []string) {
			outcome, filename := newLoader().BuildTable(inputPath, inputDir, outputPath)
			os.Exit(report(outcome, "Successfully wrote transform table.", filename))
		},
	}
	tableCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input .dat file (required)")
	tableCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory holding image<N>.png files (required)")
	tableCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Table file, e.g. invisible.json.zst (required)")
	requireFlags(tableCmd, "input", "dir", "output")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the images embedded in a .dat file",
		Run: func(cmd *cobra.Command, args []string) {
			infos, outcome := newLoader().ListImages(inputPath)
			if outcome == gamedata.OutcomeSuccess {
				fmt.Printf("%6s  %10s  %8s  %6s  %s\n", "INDEX", "OFFSET", "SIZE", "CHUNKS", "FILLER")
				for _, info := range infos {
					fmt.Printf("%6d  %10d  %8d  %6d  %d\n", info.Index, info.Offset, info.Size, info.Chunks, info.Filler)
				}
			}
			os.Exit(report(outcome, fmt.Sprintf("Found %d images.", len(infos)), ""))
		},
	}
	listCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input .dat file (required)")
	requireFlags(listCmd, "input")

	rootCmd.AddCommand(extractCmd, packCmd, invisibleCmd, trailsCmd, tableCmd, listCmd)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
