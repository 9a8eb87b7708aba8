package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jpicht/nulldot/lib/config"
	"github.com/jpicht/nulldot/lib/nulldot"
	"github.com/spf13/cobra"
)

const keyEnv = "NULLDOT_KEY"

type app struct {
	cfgFile string
	key     string
	keySet  bool
	profile config.Profile

	// overrides of the profile
	flags config.Profile
}

func newRootCommand(version, commit string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "nulldot",
		Short:        "Encode text into two glyph symbols and back",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Read(a.cfgFile)
			if err != nil {
				return err
			}
			a.profile = p
			a.merge(cmd)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.nulldot/config)")
	flags.StringVarP(&a.key, "key", "k", "", "secret key (default is $"+keyEnv+")")
	flags.StringVar(&a.flags.Zero, "zero", "", "symbol for a zero bit")
	flags.StringVar(&a.flags.One, "one", "", "symbol for a one bit")
	flags.StringVar(&a.flags.CharDelimiter, "char-delimiter", "", "symbol terminating a character")
	flags.StringVar(&a.flags.WordDelimiter, "word-delimiter", "", "symbol replacing a space")
	flags.StringVarP(&a.flags.Variant, "variant", "V", "", "transform variant ("+strings.Join(nulldot.Variants(), ", ")+")")
	flags.StringVar(&a.flags.Hash, "hash", "", "keystream hash (sha512, blake2b)")
	flags.BoolVar(&a.flags.Legacy, "legacy", false, "use the keystream of the first release")

	root.AddCommand(
		newEncodeCommand(a),
		newDecodeCommand(a),
		newKeystreamCommand(a),
		newVariantsCommand(a),
		newConfigCommand(a),
	)

	return root
}

// Execute runs the command tree until done or interrupted
func Execute(root *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

// merge applies the flags that were set on top of the profile
func (a *app) merge(cmd *cobra.Command) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	a.keySet = changed("key")
	if changed("zero") {
		a.profile.Zero = a.flags.Zero
	}
	if changed("one") {
		a.profile.One = a.flags.One
	}
	if changed("char-delimiter") {
		a.profile.CharDelimiter = a.flags.CharDelimiter
	}
	if changed("word-delimiter") {
		a.profile.WordDelimiter = a.flags.WordDelimiter
	}
	if changed("variant") {
		a.profile.Variant = a.flags.Variant
	}
	if changed("hash") {
		a.profile.Hash = a.flags.Hash
	}
	if changed("legacy") {
		a.profile.Legacy = a.flags.Legacy
	}
}

func (a *app) secret() (string, error) {
	if a.keySet {
		return a.key, nil
	}
	if key, ok := os.LookupEnv(keyEnv); ok {
		return key, nil
	}
	return "", fmt.Errorf("no key: use --key or $%s", keyEnv)
}

// input joins args or reads all of in when there are none
func input(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
