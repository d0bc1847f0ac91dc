package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"taskd/internal/capability"
	"taskd/internal/envelope"
	"taskd/internal/obs"
	"taskd/internal/task"
)

func newInvokeCmd(fv *flagValues) *cobra.Command {
	var (
		data    string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run one request through the task handler and print the data part",
		Example: "  taskd invoke --task summarization --model sshleifer/distilbart-cnn-12-6 --backend remote --remote-url http://localhost:9000/pipeline --data 'long text'\n" +
			"  echo '[\"text\",\"sports\",\"politics\"]' | taskd invoke --config zero-shot.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), fv)
			if err != nil {
				return err
			}
			payload := []byte(data)
			if !cmd.Flags().Changed("data") {
				if payload, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			log, closer := obs.NewLogger(cfg.Log)
			defer closer.Close()
			ctx := cmd.Context()
			pipe, err := capability.Open(ctx, task.SpecFor(cfg.Task), cfg.Backend, log)
			if err != nil {
				return err
			}
			defer pipe.Close()
			h, err := task.New(cfg.Task, pipe, log)
			if err != nil {
				return err
			}
			resp := task.NewDispatcher(h, log).Handle(ctx, envelope.FromBytes(payload))
			return printData(cmd.OutOrStdout(), resp, outPath)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "Request payload (reads stdin when unset)")
	cmd.Flags().StringVar(&outPath, "out", "", "File for binary output (text-to-image)")
	return cmd
}

// printData writes the data part: text and JSON to w, binary to outPath.
// A warmup reply prints nothing.
func printData(w io.Writer, resp *envelope.Response, outPath string) error {
	p, ok := resp.Get(envelope.DataPart)
	if !ok {
		return nil
	}
	if p.Kind == envelope.KindBinary {
		if outPath == "" {
			return errors.New("binary output requires --out")
		}
		if err := os.WriteFile(outPath, p.Body, 0o644); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "wrote %d bytes to %s\n", len(p.Body), outPath)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", p.Body)
	return err
}
