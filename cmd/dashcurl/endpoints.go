package main

import (
	"context"
	"dash-api/registry"
	"fmt"
	"io"
	"text/tabwriter"
)

func runEndpoints(ctx context.Context, opts *options, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("endpoints needs a subcommand: list, watch, announce or remove")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()
	service := cfg.Registry.Service

	switch sub, rest := args[0], args[1:]; sub {
	case "list":
		instances, err := reg.Discover(ctx, service)
		if err != nil {
			return err
		}
		return printInstances(stdout, instances)

	case "watch":
		for instances := range reg.Watch(ctx, service) {
			fmt.Fprintf(stdout, "--- %d instance(s)\n", len(instances))
			if err := printInstances(stdout, instances); err != nil {
				return err
			}
		}
		return nil

	case "announce":
		if len(rest) != 1 {
			return fmt.Errorf("announce needs exactly one URL")
		}
		inst := registry.ServiceInstance{URL: rest[0], Weight: opts.weight, Version: opts.version}
		if err := reg.Register(ctx, service, inst, opts.ttl); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "announced %s as %s, interrupt to withdraw\n", inst.URL, service)
		<-ctx.Done()
		// ctx is gone; withdraw on a fresh one
		return reg.Deregister(context.Background(), service, inst.URL)

	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("remove needs exactly one URL")
		}
		return reg.Deregister(ctx, service, rest[0])

	default:
		return fmt.Errorf("unknown endpoints subcommand %q", sub)
	}
}

func printInstances(w io.Writer, instances []registry.ServiceInstance) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tWEIGHT\tVERSION")
	for _, inst := range instances {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", inst.URL, inst.Weight, inst.Version)
	}
	return tw.Flush()
}
