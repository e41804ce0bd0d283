// dashcurl sends one request through the dash-api client pipeline and prints
// the decoded JSON. It can also decode a captured response body offline and
// manage the deployments registered in etcd.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	baseURL    string
	logLevel   string
	timeout    time.Duration

	query   []string
	headers []string
	data    string

	unwrap     bool
	selectPath string

	// decode
	encoding string
	key      string

	// endpoints
	weight  int
	version string
	ttl     int64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("dashcurl", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "config file (default: $DASH_API_CONFIG)")
	flagSet.StringVar(&opts.baseURL, "base-url", "", "API base URL, overrides base_url from the config")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level from the config")
	flagSet.DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up on a request after this long")
	flagSet.StringArrayVarP(&opts.query, "query", "q", nil, "query parameter KEY=VALUE (repeatable, order kept)")
	flagSet.StringArrayVarP(&opts.headers, "header", "H", nil, "request header 'Name: value' (repeatable)")
	flagSet.StringVarP(&opts.data, "data", "d", "", "JSON request body; @FILE reads it from FILE")
	flagSet.BoolVar(&opts.unwrap, "unwrap", false, "print only the entity inside the response envelope")
	flagSet.StringVar(&opts.selectPath, "select", "", "print only the value at this gjson path")
	flagSet.StringVar(&opts.encoding, "encoding", "", "decode: encoding assumed when the body declares none")
	flagSet.StringVar(&opts.key, "key", "", "decode: xor/aes key")
	flagSet.IntVar(&opts.weight, "weight", 1, "endpoints announce: load balancing weight")
	flagSet.StringVar(&opts.version, "version", "", "endpoints announce: deployment version")
	flagSet.Int64Var(&opts.ttl, "ttl", 10, "endpoints announce: lease TTL in seconds")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("missing command")
	}

	switch cmd := strings.ToLower(rest[0]); cmd {
	case "get", "post", "put", "patch", "delete":
		return runRequest(ctx, &opts, strings.ToUpper(cmd), rest[1:], stdout)
	case "decode":
		return runDecode(&opts, rest[1:], stdin, stdout)
	case "endpoints":
		return runEndpoints(ctx, &opts, rest[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `dashcurl: talk to the dash API through the client pipeline.

Usage:
  dashcurl [flags] get|post|put|patch|delete PATH
  dashcurl [flags] decode [FILE|-]
  dashcurl [flags] endpoints list|watch
  dashcurl [flags] endpoints announce|remove URL

Examples:
  dashcurl get habits -q date=2026-10-19 --unwrap
  dashcurl post tasks -d '{"title":"Water plants"}' --select task.id
  dashcurl decode --encoding aes --key "$KEY" captured.json

Flags:
`)
	flagSet.PrintDefaults()
}
