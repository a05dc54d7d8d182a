package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stevencartavia/cairo-native/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sierra2llvm",
	Short: "Sierra to LLVM IR compiler",
	Long:  `sierra2llvm lowers Sierra program artifacts into LLVM IR`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to sierra2llvm.toml (default: walk up from cwd)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace verbosity (off|error|phase|debug)")
	rootCmd.PersistentFlags().String("trace-output", "", "trace destination file (default: stderr)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
