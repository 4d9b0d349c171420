package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/equity-outlook/internal/adapter/grpc"
)

// Flags shared by the one-shot commands
var (
	remoteAddr  string
	remoteToken string
	timeout     time.Duration
)

// projectCmd computes one projection and prints it as JSON
var projectCmd = &cobra.Command{
	Use:   "project <market>",
	Short: "Compute the drift-adjusted projection of one market",
	Long: `Compute the drift-adjusted 10-year return projection of one market and
print it as JSON. Without --remote the computation runs in process against the
configured database.

Examples:
  outlook project usa
  outlook project europe --remote localhost:8080 --token dev-token`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

// unemploymentCmd prints the unemployment vs recession chart series
var unemploymentCmd = &cobra.Command{
	Use:   "unemployment",
	Short: "Print the unemployment rate and recession periods",
	Args:  cobra.NoArgs,
	RunE:  runUnemployment,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(unemploymentCmd)

	for _, cmd := range []*cobra.Command{projectCmd, unemploymentCmd} {
		cmd.Flags().StringVar(&remoteAddr, "remote", "", "Address of a running outlook server (default: compute locally)")
		cmd.Flags().StringVar(&remoteToken, "token", "dev-token", "API token sent to the remote server")
		cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	}
}

func runProject(cmd *cobra.Command, args []string) error {
	market := strings.TrimSpace(args[0])

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	var resp *structpb.Struct
	if remoteAddr != "" {
		client, closeConn, err := dialRemote()
		if err != nil {
			return err
		}
		defer closeConn()

		resp, err = client.ComputeProjection(withToken(ctx), market)
		if err != nil {
			return err
		}
	} else {
		a, err := newApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.db.Close()

		cfg, err := a.registry.Lookup(market)
		if err != nil {
			return err
		}
		result, err := a.projection.ComputeProjection(ctx, cfg)
		if err != nil {
			return err
		}
		resp, err = structpb.NewStruct(grpcadapter.ProjectionToMap(result))
		if err != nil {
			return err
		}
	}

	return printJSON(cmd, resp)
}

func runUnemployment(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	var resp *structpb.Struct
	if remoteAddr != "" {
		client, closeConn, err := dialRemote()
		if err != nil {
			return err
		}
		defer closeConn()

		resp, err = client.ComputePassthroughSeries(withToken(ctx))
		if err != nil {
			return err
		}
	} else {
		a, err := newApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.db.Close()

		result, err := a.passthrough.ComputePassthroughSeries(ctx)
		if err != nil {
			return err
		}
		resp, err = structpb.NewStruct(grpcadapter.PassthroughToMap(result))
		if err != nil {
			return err
		}
	}

	return printJSON(cmd, resp)
}

func dialRemote() (*grpcadapter.Client, func(), error) {
	conn, err := grpclib.NewClient(remoteAddr, grpclib.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", remoteAddr, err)
	}
	return grpcadapter.NewClient(conn), func() { conn.Close() }, nil
}

func withToken(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", remoteToken)
}

func printJSON(cmd *cobra.Command, resp *structpb.Struct) error {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
