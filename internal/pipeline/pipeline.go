package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/photomet/decorr-metrics/internal/config"
	"github.com/photomet/decorr-metrics/internal/experiment"
	"github.com/photomet/decorr-metrics/internal/measure"
	"github.com/photomet/decorr-metrics/internal/raster"
	"github.com/photomet/decorr-metrics/internal/results"
)

// Run executes the whole measurement sweep described by cfg.
//
// The configuration is validated once up front; a singular calibration matrix
// or a missing input root aborts before any unit is touched. Unit-scoped
// failures abandon only the affected unit, and Run returns a summary error if
// any unit failed.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("input", cfg.InputRoot).
		Str("output", cfg.OutputRoot).
		Int("workers", cfg.Workers).
		Bool("calibration_mode", cfg.CalibrationMode).
		Msg("starting measurement run")

	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	var mu sync.Mutex
	total, failed := 0, 0

	walkErr := experiment.Walk(cfg.InputRoot, func(unit experiment.Unit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		total++
		g.Go(func() error {
			if err := ProcessUnit(cfg, unit, log); err != nil {
				log.Error().Err(err).Str("unit", unit.Rel()).Msg("unit abandoned")
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
		return nil
	})

	// Workers for already-dispatched units run to completion even when
	// discovery itself failed. Workers never return errors; unit failures
	// are counted above.
	_ = g.Wait()

	if walkErr != nil {
		return walkErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d units failed", failed, total)
	}

	log.Info().Int("units", total).Msg("measurement run complete")
	return nil
}

// ProcessUnit measures every frame of one experiment unit and writes its
// Results.csv. The unit is abandoned at the first failure; a completed table
// always holds exactly one row per frame, in sequencer order.
func ProcessUnit(cfg config.Config, unit experiment.Unit, log zerolog.Logger) error {
	ulog := log.With().Str("unit", unit.Rel()).Logger()
	ulog.Info().Int("frames", len(unit.Frames)).Msg("processing unit")

	frames, err := experiment.OrderFrames(unit.Frames)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("unit %s holds no frames", unit.Rel())
	}

	// The first ordered frame is the reference the template is cut from.
	ref, err := raster.LoadGray(filepath.Join(unit.Dir, frames[0]))
	if err != nil {
		return err
	}
	tpl, err := raster.ExtractTemplate(ref,
		cfg.Template.OriginX, cfg.Template.OriginY,
		cfg.Template.Width, cfg.Template.Height)
	if err != nil {
		return err
	}

	outDir := filepath.Join(cfg.OutputRoot, unit.GainLabel, unit.MoveLabel, unit.ExpLabel)
	created, err := results.EnsureDir(outDir)
	if err != nil {
		return err
	}
	if created {
		ulog.Info().Str("dir", outDir).Msg("created output directory")
	} else {
		ulog.Debug().Str("dir", outDir).Msg("output directory already present")
	}

	sink, err := results.OpenSink(outDir)
	if err != nil {
		return err
	}
	defer sink.Close()

	confidences := make([]float64, 0, len(frames))
	migs := make([]float64, 0, len(frames))

	for _, name := range frames {
		path := filepath.Join(unit.Dir, name)
		ulog.Debug().Str("frame", path).Msg("reading frame")

		img, err := raster.LoadGray(path)
		if err != nil {
			return err
		}

		disp, err := measure.EstimateShift(img, tpl, cfg.Frame.Width, cfg.Frame.Height)
		if err != nil {
			return err
		}
		mig, err := measure.MeanIntensityGradient(img)
		if err != nil {
			return err
		}

		rec := results.Record{
			PixelShiftX: disp.ShiftCol,
			PixelShiftY: disp.ShiftRow,
			Confidence:  disp.Confidence,
			MIG:         mig,
		}
		if !cfg.CalibrationMode {
			rec.DistXmm, rec.DistYmm, err = cfg.Calibration.Transform(disp.ShiftRow, disp.ShiftCol)
			if err != nil {
				return err
			}
			rec.HasDistance = true
		}

		if err := sink.Append(rec); err != nil {
			return err
		}
		confidences = append(confidences, disp.Confidence)
		migs = append(migs, mig)
	}

	if err := sink.Close(); err != nil {
		return err
	}

	summary := ulog.Info().
		Str("table", sink.Path()).
		Int("rows", len(frames)).
		Float64("confidence_mean", stat.Mean(confidences, nil)).
		Float64("mig_mean", stat.Mean(migs, nil))
	if len(frames) > 1 {
		summary = summary.
			Float64("confidence_stddev", stat.StdDev(confidences, nil)).
			Float64("mig_stddev", stat.StdDev(migs, nil))
	}
	summary.Msg("unit complete")
	return nil
}
