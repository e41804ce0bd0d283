package main

import (
	"dash-api/codec"
	"dash-api/config"
	"fmt"
	"io"
	"os"
)

// runDecode runs a captured response body through the decoding gate. The
// encoding settings come from the config file when one is given and can be
// overridden by --encoding and --key. Decoding is always enabled.
func runDecode(opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 1 {
		return fmt.Errorf("decode takes at most one FILE")
	}

	cfg := codec.Config{Type: codec.CodecTypeAES}
	if opts.configPath != "" || os.Getenv(config.EnvConfig) != "" {
		c, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = c.Encoding()
	}
	cfg.Enabled = true
	if opts.encoding != "" {
		t, ok := codec.ParseCodecType(opts.encoding)
		if !ok {
			return fmt.Errorf("unknown encoding %q, want one of %v", opts.encoding, codec.CodecTypes)
		}
		cfg.Type = t
	}
	if opts.key != "" {
		cfg.Key = opts.key
	}

	var raw []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	body, err := codec.DecodeIfNeeded(raw, &cfg)
	if err != nil {
		return err
	}
	return printBody(stdout, body, opts)
}
