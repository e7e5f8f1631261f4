package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/freightops-pro/boxtrace/internal/config"
	"github.com/freightops-pro/boxtrace/internal/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "boxtrace",
	Short: "Container tracking and demurrage intelligence",
	Long: `boxtrace tracks shipping containers across port terminal operating
systems and computes the storage and rental charges (demurrage and per
diem) that accrue when a container overstays its free time.

Look a container up at a known port, search the major ports when you
don't know where it sits, and get a tiered charge breakdown with an
urgency classification from a handful of dates.`,
	Version: version.Version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// These should never fail as flags are defined above
	_ = viper.BindPFlag("server.debug", rootCmd.PersistentFlags().Lookup("debug")) //nolint:errcheck

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(demurrageCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Println(info.String())
	},
}
