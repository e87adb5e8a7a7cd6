// Package convert drives conversion of OPSI legislation pages into XML: it
// collects inputs, runs every document through header and body parsing in
// order and stops at the first document which cannot be converted.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"lawparse/config"
	"lawparse/state"
)

// BatchError reports document which aborted the batch.
type BatchError struct {
	Index   int
	Locator string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("error in file number %d (%s): %v", e.Index, e.Locator, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Summary counts batch results.
type Summary struct {
	Converted int
	Skipped   int
	Outputs   []string
}

// RunActs is action for "acts" command.
func RunActs(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, config.KindAct)
}

// RunSI is action for "si" command.
func RunSI(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, config.KindSI)
}

func run(ctx context.Context, cmd *cli.Command, kind config.Kind) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	if err := env.Prepare(); err != nil {
		return fmt.Errorf("unable to prepare environment: %w", err)
	}
	log := env.Log.Named("convert")

	src := cmd.String("source")
	if len(src) == 0 {
		src = env.Dirs.Input(kind)
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.String("destination")
	if len(dst) == 0 {
		dst = env.Dirs.Output(kind)
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	inputs, err := collectInputs(kind, src, cmd.Args().Slice())
	if err != nil {
		return err
	}

	opts := &Options{
		Kind:          kind,
		OutputDir:     dst,
		Skip:          env.Cfg.Document.Skip,
		Patches:       env.Patches,
		Charset:       env.Charset,
		PreviewLength: env.Cfg.Document.PreviewLength,
		Indent:        env.Cfg.Document.Indent,
		Report:        env.Rpt,
	}

	log.Info("Processing starting", zap.Stringer("kind", kind), zap.String("source", src), zap.String("destination", dst), zap.Int("documents", len(inputs)))
	sum, err := process(ctx, inputs, opts, log)
	log.Info("Processing completed", zap.Duration("elapsed", env.Uptime()), zap.Int("converted", sum.Converted), zap.Int("skipped", sum.Skipped))
	return err
}

// process converts inputs in order. The first failure aborts the batch, it is
// returned as *BatchError.
func process(ctx context.Context, inputs []*input, opts *Options, log *zap.Logger) (Summary, error) {
	var sum Summary
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		log.Info("Reading", zap.Int("index", i), zap.String("file", in.Locator))
		start := time.Now()

		out, err := processDocument(in, opts, log)
		if err != nil {
			log.Error("Conversion failed", zap.Int("index", i), zap.String("file", in.Path), zap.Error(err))
			return sum, &BatchError{Index: i, Locator: in.Locator, Err: err}
		}
		if len(out) == 0 {
			sum.Skipped++
			continue
		}
		sum.Converted++
		sum.Outputs = append(sum.Outputs, out)
		log.Debug("Conversion completed", zap.Int("index", i), zap.String("to", out), zap.Duration("elapsed", time.Since(start)))
	}
	return sum, nil
}
