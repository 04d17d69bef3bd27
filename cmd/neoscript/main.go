package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/lunfardo314/neoscript/asm"
	"github.com/lunfardo314/neoscript/builder"
	"github.com/lunfardo314/neoscript/script"
	"github.com/lunfardo314/neoscript/util/logger"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "neoscript",
		Short:         "neoscript assembles, decodes and verifies NeoVM scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	withConfigFlags(rootCmd)
	rootCmd.AddCommand(asmCmd(), verifyCmd(), decodeCmd(), syscallCmd(), hashCmd())
	return rootCmd
}

func asmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm <file>",
		Short: "assemble source file and print the script in hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Debug)
			defer func() { _ = log.Sync() }()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			code, err := asm.CompileWithLogger(string(src), log, cfg.builderOptions()...)
			if err != nil {
				return err
			}
			log.Debugf("assembled %d bytes from %s", len(code), args[0])
			if cfg.Strict && !cfg.UnpaddedBranchOffsets {
				if _, err = script.NewStrict(code); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(code))
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <hex>",
		Short: "verify script strictly and report all violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			errs := multierr.Errors(script.VerifyAll(code))
			for _, e := range errs {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d violation(s) found", len(errs))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "list instructions of the script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			code, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			s := script.New(code)
			if cfg.Strict {
				if s, err = script.NewStrict(code); err != nil {
					return err
				}
			}
			entries, err := s.Instructions()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%04d %s\n", e.IP, e.Instruction)
			}
			return nil
		},
	}
}

func syscallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syscall <name>...",
		Short: "print interop hashes of syscall names",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s 0x%08x %s\n",
					name, builder.InteropHash(name), hex.EncodeToString(builder.InteropHashBytes(name)))
			}
		},
	}
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <hex>",
		Short: "print script hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), script.New(code).Hash())
			return nil
		},
	}
}

func decodeHexArg(s string) ([]byte, error) {
	ret, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("wrong hex script: %w", err)
	}
	return ret, nil
}
