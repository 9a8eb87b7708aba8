package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jpicht/nulldot/lib/keystream"
	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/spf13/cobra"
)

func newEncodeCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text, read from stdin without arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.secret()
			if err != nil {
				return err
			}
			codec, err := a.profile.Codec()
			if err != nil {
				return err
			}
			text, err := input(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var data interface{} = text
			if asJSON {
				if !json.Valid([]byte(text)) {
					return fmt.Errorf("input is not valid JSON")
				}
				data = json.RawMessage(text)
			}

			encoded, err := codec.Encode(data, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "treat the input as a JSON value and encode its compact form")
	return cmd
}

func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [ENCODED]",
		Short: "Decode text, read from stdin without arguments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.secret()
			if err != nil {
				return err
			}
			codec, err := a.profile.Codec()
			if err != nil {
				return err
			}
			encoded, err := input(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			text, err := codec.Decode(encoded, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newKeystreamCommand(a *app) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "keystream",
		Short: "Print the keyed byte sequence as hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.secret()
			if err != nil {
				return err
			}

			var source nulldot.Source = keystream.Legacy{}
			if !a.profile.Legacy {
				h, err := keystream.HasherByName(a.profile.Hash)
				if err != nil {
					return err
				}
				source = keystream.New(h)
			}

			seq, err := source.Generate(key, length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(seq))
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", 32, "number of bytes")
	return cmd
}

func newVariantsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the transform variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := a.profile.Variant
			if current == "" {
				current = nulldot.Classic7.Name
			}
			for _, name := range nulldot.Variants() {
				v, err := nulldot.VariantByName(name)
				if err != nil {
					return err
				}
				marker := "  "
				if name == current {
					marker = "* "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%-10s %2d bit  %d ops\n", marker, v.Name, v.Width, len(v.Ops))
			}
			return nil
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle the nulldot profile",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Store the current flags in the profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.profile.Codec(); err != nil {
					return err
				}
				if err := a.profile.Write(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved profile to %s\n", a.profile.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective symbols and variant",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				codec, err := a.profile.Codec()
				if err != nil {
					return err
				}
				s := codec.Symbols()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "zero:           %q\n", s.Zero)
				fmt.Fprintf(out, "one:            %q\n", s.One)
				fmt.Fprintf(out, "char-delimiter: %q\n", s.CharDelimiter)
				fmt.Fprintf(out, "word-delimiter: %q\n", s.WordDelimiter)
				fmt.Fprintf(out, "variant:        %s\n", codec.Variant().Name)
				return nil
			},
		},
	)

	return cmd
}
