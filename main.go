package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stesla/tnscope/internal/config"
	"github.com/stesla/tnscope/internal/telnet"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tnscope",
		Short:        "Decode captured TELNET and TN3270 conversations",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", getEnvDefault("TNSCOPE_CONFIG", "tnscope.yml"), "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnvDefault("TNSCOPE_LOG_LEVEL", ""), "log level, overriding the config file")

	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(optionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func decodeCmd() *cobra.Command {
	var (
		summaryItems int
		noReassemble bool
		tn3270Ports  []int
		verbose      bool
	)
	cmd := &cobra.Command{
		Use:   "decode <script>",
		Short: "Decode a capture script, or standard input when it is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("summary-items") {
				cfg.SummaryItems = summaryItems
			}
			if noReassemble {
				cfg.Reassemble = false
			}
			for _, port := range tn3270Ports {
				if port < 1 || port > 65535 {
					return errors.Errorf("tn3270 port %d out of range", port)
				}
				cfg.TN3270Ports = append(cfg.TN3270Ports, uint16(port))
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}

			var in io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open capture")
				}
				defer f.Close()
				in = f
			}

			s := newSession(cfg, logger, cmd.OutOrStdout())
			defer s.Close()
			s.verbose = verbose
			return s.run(cmd.Context(), in)
		},
	}
	cmd.Flags().IntVarP(&summaryItems, "summary-items", "n", 5, "records shown in each summary")
	cmd.Flags().BoolVar(&noReassemble, "no-reassemble", false, "decode each segment on its own")
	cmd.Flags().IntSliceVar(&tn3270Ports, "tn3270-port", nil, "port carrying TN3270 from the first byte")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every record instead of a summary")
	return cmd
}

func optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the TELNET options the decoder knows",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printOptions(cmd.OutOrStdout())
		},
	}
}

func printOptions(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "Name", "Length", "Min", "Decoded"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	codes := make([]byte, 0, 51)
	for code := 0; code < 50; code++ {
		codes = append(codes, byte(code))
	}
	codes = append(codes, telnet.VMwareSerialProxy)
	for _, code := range codes {
		opt := telnet.LookupOption(code)
		decoded := ""
		if opt.HasDecoder() {
			decoded = "yes"
		}
		table.Append([]string{
			strconv.Itoa(int(code)),
			opt.Name,
			opt.Length.String(),
			strconv.Itoa(opt.Min),
			decoded,
		})
	}
	table.Render()
}

func getEnvDefault(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}
