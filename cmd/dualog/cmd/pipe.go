package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sivaosorg/dualog"
	"github.com/spf13/cobra"
)

const maxLineSize = 1 << 20

func (c *command) initPipeCmd() {
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Log every line read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			level, err := dualog.ParseSeverity(c.config.GetString(optionNameAs))
			if err != nil {
				return err
			}
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			if addr := c.config.GetString(optionNameMetricsAddr); addr != "" {
				stop, err := serveMetrics(addr, logger)
				if err != nil {
					return err
				}
				defer stop()
			}

			structured := c.config.GetBool(optionNameJSON)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
			for scanner.Scan() {
				logger.Log(level, linePayload(scanner.Text(), structured))
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return c.flush(logger)
		},
	}

	cmd.Flags().String(optionNameAs, "INFO", "severity of the logged lines")
	cmd.Flags().Bool(optionNameJSON, false, "decode every line as JSON and log it as a structured payload")
	cmd.Flags().String(optionNameMetricsAddr, "", "serve prometheus metrics on this address while reading")

	c.root.AddCommand(cmd)
}

// linePayload returns the payload for one input line. Lines that are not
// valid JSON are logged as text even when structured is set.
func linePayload(line string, structured bool) dualog.Payload {
	if !structured {
		return dualog.Text(line)
	}
	var v any
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return dualog.Text(line)
	}
	return dualog.JSON(v)
}

func serveMetrics(addr string, logger *dualog.Logger) (stop func(), err error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(logger.Metrics()...)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Errorf("metrics server: %w", err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
