// Package main implements the hl7terser CLI: decode HL7 v2 message files and
// read or write values by terser path expression. It consumes only the
// public hl7v2 API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/pkg/logger"
)

// Config is the optional YAML configuration file.
type Config struct {
	// SegmentTerminator used when encoding output. Default carriage return.
	SegmentTerminator string `yaml:"segment_terminator"`

	// LenientNewlines accepts LF/CRLF framing on decode. Default true.
	LenientNewlines *bool `yaml:"lenient_newlines"`
}

var (
	configPath string
	verbose    bool
	cfg        Config
	log        = logger.Default()
)

func main() {
	root := &cobra.Command{
		Use:           "hl7terser",
		Short:         "Query and mutate HL7 v2 messages by terser path",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logger.LevelDebug)
			}
			return loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(getCmd(), setCmd(), patternCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hl7terser:", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	log.Debug("loaded config from %s", configPath)
	return nil
}

func codecOptions() []hl7v2.Option {
	var opts []hl7v2.Option
	if cfg.SegmentTerminator != "" {
		opts = append(opts, hl7v2.WithSegmentTerminator(cfg.SegmentTerminator))
	}
	if cfg.LenientNewlines != nil {
		opts = append(opts, hl7v2.WithLenientNewlines(*cfg.LenientNewlines))
	}
	return opts
}

// readMessage decodes the message in the named file, or stdin for "-".
func readMessage(name string) (*hl7v2.Message, error) {
	var (
		raw []byte
		err error
	)
	if name == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return hl7v2.Decode(raw, codecOptions()...)
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>...",
		Short: "Print the value at each path (one per line)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}
			bulk := hl7v2.NewBulkTerser(msg)
			var failed bool
			for _, r := range bulk.GetMultiple(args[1:]) {
				switch {
				case r.Err != nil:
					failed = true
					fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
				case !r.Found:
					fmt.Printf("%s:\n", r.Path)
				default:
					fmt.Printf("%s: %s\n", r.Path, r.Value)
				}
			}
			if failed {
				return errors.New("one or more paths failed to parse")
			}
			return nil
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Set the value at a path and write the re-encoded message to stdout",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}
			if err := hl7v2.NewMutTerser(msg).Set(args[1], args[2]); err != nil {
				return err
			}
			out, err := hl7v2.Encode(msg, codecOptions()...)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

func patternCmd() *cobra.Command {
	var nonEmpty bool
	cmd := &cobra.Command{
		Use:   "pattern <file> <wildcard-path>",
		Short: "Expand a wildcard path (e.g. OBX(*)-5) across all occurrences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}
			bulk := hl7v2.NewBulkTerser(msg)
			if nonEmpty {
				values, err := bulk.GetAllFromSegments(args[1])
				if err != nil {
					return err
				}
				for _, v := range values {
					fmt.Println(v)
				}
				return nil
			}
			matches, err := bulk.GetPattern(args[1])
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Printf("%s: %s\n", m.Path, m.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&nonEmpty, "non-empty", false, "print only non-empty values, without labels")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print message version, control ID, and segment layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMessage(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("version:    %s\n", msg.Version)
			fmt.Printf("control id: %s\n", msg.ControlID())
			fmt.Printf("segments:   %d\n", len(msg.Segments))
			for i, seg := range msg.Segments {
				fmt.Printf("  %2d %s (%d fields)\n", i+1, seg.ID, len(seg.Fields))
			}
			return nil
		},
	}
}
