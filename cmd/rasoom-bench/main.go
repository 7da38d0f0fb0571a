// Command rasoom-bench runs encode/decode trials against the codec and
// prints the latency, size, and speedup statistics the monitor collects.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/perf"
	"github.com/rasoomlabs/rasoom/usecase"
)

func main() {
	trials := flag.Int("trials", 1000, "number of encode/decode trials")
	workers := flag.Int("workers", 8, "concurrent workers")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	codec := usecase.NewCodec(zap.NewNop())
	monitor := perf.NewMonitor()

	start := time.Now()
	var group errgroup.Group
	group.SetLimit(*workers)

	for i := 0; i < *trials; i++ {
		seed := int64(i)
		group.Go(func() error {
			return runTrial(codec, monitor, seed)
		})
	}
	if err := group.Wait(); err != nil {
		logger.Error("Benchmark trial failed", zap.Error(err))
		os.Exit(1)
	}
	elapsed := time.Since(start)

	snap := monitor.Snapshot()
	logger.Info("Benchmark complete",
		zap.Int("trials", snap.Trials),
		zap.Duration("wall_time", elapsed),
		zap.Float64("avg_encode_ms", snap.AvgEncodeMillis),
		zap.Float64("avg_decode_ms", snap.AvgDecodeMillis),
		zap.Float64("p95_total_ms", snap.P95TotalMillis),
		zap.Float64("avg_size_bytes", snap.AvgSizeBytes),
		zap.Float64("compression_ratio", snap.CompressionRatio),
		zap.Float64("speedup_vs_json", snap.SpeedupVsJSON))

	fmt.Printf("trials:            %d\n", snap.Trials)
	fmt.Printf("avg encode:        %.4f ms\n", snap.AvgEncodeMillis)
	fmt.Printf("avg decode:        %.4f ms\n", snap.AvgDecodeMillis)
	fmt.Printf("p95 round trip:    %.4f ms\n", snap.P95TotalMillis)
	fmt.Printf("avg frame size:    %.1f bytes\n", snap.AvgSizeBytes)
	fmt.Printf("compression ratio: %.1fx\n", snap.CompressionRatio)
	fmt.Printf("speedup vs JSON:   %.1fx (baseline %.1f ms)\n", snap.SpeedupVsJSON, perf.BaselineJSONMillis)
}

func runTrial(codec *usecase.Codec, monitor *perf.Monitor, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	gesture := entities.GestureFeatures{
		Velocity:  rng.Float64(),
		Pressure:  rng.Float64(),
		Direction: entities.DirectionAt(rng.Intn(len(entities.Directions))),
	}
	for j := 0; j < 4+rng.Intn(8); j++ {
		gesture.Trajectory = append(gesture.Trajectory, entities.Point{
			X: rng.Float64(),
			Y: rng.Float64(),
		})
	}
	affect := entities.AffectiveState{
		"confidence": rng.Float64(),
		"curiosity":  rng.Float64(),
		"energy":     rng.Float64(),
	}

	encodeStart := time.Now()
	frame, err := codec.Encode(gesture, affect, "")
	if err != nil {
		return fmt.Errorf("encode trial %d: %w", seed, err)
	}
	encodeTime := time.Since(encodeStart)

	decodeStart := time.Now()
	intent := codec.Decode(frame)
	decodeTime := time.Since(decodeStart)
	if intent == nil {
		return fmt.Errorf("decode trial %d: frame did not round trip", seed)
	}

	monitor.RecordTrial(encodeTime, decodeTime, len(frame))
	return nil
}
