package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/floats"

	ringbuffer "github.com/tphakala/go-audio-ringbuffer"
)

var errInvalidConfig = errors.New("invalid stream configuration")

// streamConfig holds the streaming parameters, all sizes in frames.
type streamConfig struct {
	chunkFrames    int
	blockFrames    int
	capacityFrames int
	gain           float64 // linear
	verbose        bool
}

// Validate checks that the ring buffer can hold a full read on top of a
// block that is one frame short; below that the decoder waits for space
// while the writer waits for a full block.
func (c *streamConfig) Validate() error {
	if c.chunkFrames < 1 || c.blockFrames < 1 {
		return fmt.Errorf("%w: chunk and block must be at least 1 frame", errInvalidConfig)
	}
	if c.capacityFrames < c.chunkFrames+c.blockFrames {
		return fmt.Errorf("%w: capacity %d must hold a chunk (%d) plus a block (%d)",
			errInvalidConfig, c.capacityFrames, c.chunkFrames, c.blockFrames)
	}
	if math.IsNaN(c.gain) || math.IsInf(c.gain, 0) {
		return fmt.Errorf("%w: gain must be finite", errInvalidConfig)
	}
	return nil
}

// gainStats summarizes one processed file.
type gainStats struct {
	rate         int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
	blocks       int
	dropped      uint64
	peakDBFS     float64
	rmsDBFS      float64
}

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d in %s", bitDepth, path)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Get total duration for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         format.SampleRate,
		channels:     format.NumChannels,
		bitDepth:     bitDepth,
		totalSamples: int64(duration.Seconds() * float64(format.SampleRate)),
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and the go-audio encoder.
type wavOutputWriter struct {
	file     *os.File
	encoder  *wav.Encoder
	format   *audio.Format
	bitDepth int
}

// createWAVOutput creates the output file and encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:     outputFile,
		encoder:  wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		format:   &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		bitDepth: bitDepth,
	}, nil
}

// WriteSamples writes interleaved integer samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	return w.encoder.Write(&audio.IntBuffer{
		Format:         w.format,
		Data:           samples,
		SourceBitDepth: w.bitDepth,
	})
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// gainStage applies a fixed gain to one block at a time. Its ring buffer is
// confined to the writer goroutine, so it runs without locking.
type gainStage struct {
	ring   *ringbuffer.RingBuffer[float64]
	factor float64
}

func newGainStage(blockSamples int, factor float64) (*gainStage, error) {
	ring, err := ringbuffer.NewWithConfig[float64](&ringbuffer.Config{
		Capacity:    blockSamples,
		Concurrency: ringbuffer.ConcurrencyNone,
	})
	if err != nil {
		return nil, err
	}
	return &gainStage{ring: ring, factor: factor}, nil
}

// Process returns block multiplied by the stage gain. block must not be
// longer than the stage capacity.
func (g *gainStage) Process(block []float64) []float64 {
	g.ring.Enqueue(block)
	ringbuffer.Scale(g.ring, g.factor)
	return g.ring.Dequeue()
}

// levelMeter tracks peak and RMS of normalized samples.
type levelMeter struct {
	peak       float64
	sumSquares float64
	count      int
}

// Add accumulates samples into the meter.
func (m *levelMeter) Add(samples []float64) {
	if len(samples) == 0 {
		return
	}
	m.peak = max(m.peak, floats.Norm(samples, math.Inf(1)))
	m.sumSquares += floats.Dot(samples, samples)
	m.count += len(samples)
}

// PeakDBFS returns the absolute peak in dB relative to full scale.
func (m *levelMeter) PeakDBFS() float64 {
	return toDBFS(m.peak)
}

// RMSDBFS returns the RMS level in dB relative to full scale.
func (m *levelMeter) RMSDBFS() float64 {
	if m.count == 0 {
		return math.Inf(-1)
	}
	return toDBFS(math.Sqrt(m.sumSquares / float64(m.count)))
}

func toDBFS(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return decibelFactor * math.Log10(v)
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/decibelFactor)
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// denormalizeInto clamps normalized samples to [-1.0, 1.0] and scales them
// to integers in dst. Returns the number of elements written.
func denormalizeInto(dst []int, src []float64, maxVal float64) int {
	n := min(len(dst), len(src))
	for i, sample := range src[:n] {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		dst[i] = int(sample * maxVal)
	}
	return n
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// processFile streams inputPath through the ring buffer and gain stage into
// outputPath.
func processFile(inputPath, outputPath string, cfg streamConfig) (stats *gainStats, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	input, err := openWAVInput(inputPath, cfg.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	ring, err := ringbuffer.NewWithConfig[float64](&ringbuffer.Config{
		Capacity: cfg.capacityFrames * input.channels,
	})
	if err != nil {
		return nil, err
	}

	maxVal := getMaxValue(input.bitDepth)
	stage, err := newGainStage(cfg.blockFrames*input.channels, cfg.gain/maxVal)
	if err != nil {
		return nil, err
	}

	stats = &gainStats{
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// producing is cancelled once the decoder has enqueued its last chunk.
	producing, producerDone := context.WithCancel(ctx)
	producerErr := make(chan error, 1)
	go func() {
		defer producerDone()
		producerErr <- produce(ctx, input, ring, cfg.chunkFrames, stats, cfg.verbose)
	}()

	w := &blockWriter{
		output: output,
		stage:  stage,
		maxVal: maxVal,
		stats:  stats,
		meter:  &levelMeter{},
	}
	if err := consume(producing, ring, cfg.blockFrames*input.channels, w); err != nil {
		cancel()
		<-producerErr
		return nil, err
	}
	if err := <-producerErr; err != nil {
		return nil, err
	}

	stats.outputFrames = w.samples / int64(input.channels)
	stats.dropped = ring.Dropped()
	stats.peakDBFS = w.meter.PeakDBFS()
	stats.rmsDBFS = w.meter.RMSDBFS()

	return stats, nil
}

// produce decodes the input in chunks and enqueues them, waiting for room
// so that nothing buffered is overwritten.
func produce(
	ctx context.Context,
	input *wavInputInfo,
	ring *ringbuffer.RingBuffer[float64],
	chunkFrames int,
	stats *gainStats,
	verbose bool,
) error {
	buf := &audio.IntBuffer{
		Format:         input.format,
		Data:           make([]int, chunkFrames*input.channels),
		SourceBitDepth: input.bitDepth,
	}
	progress := newProgressTracker(input.totalSamples, verbose)
	var samples int64

	for {
		buf.Data = buf.Data[:cap(buf.Data)]
		n, err := input.decoder.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			stats.inputFrames = samples / int64(input.channels)
			return nil
		}

		if err := ring.WaitWritable(ctx, n); err != nil {
			return err
		}
		ringbuffer.EnqueueFrom(ring, buf.Data[:n])

		samples += int64(n)
		progress.reportIfNeeded(samples / int64(input.channels))
	}
}

// consume drains the ring buffer in blocks of blockSamples until producing
// is done, then writes whatever partial block remains.
func consume(producing context.Context, ring *ringbuffer.RingBuffer[float64], blockSamples int, w *blockWriter) error {
	for {
		waitErr := ring.WaitReadable(producing, blockSamples)

		for ring.Size() >= blockSamples {
			if err := w.Write(ring.DequeueN(blockSamples)); err != nil {
				return err
			}
		}

		if waitErr != nil {
			if rest := ring.Dequeue(); len(rest) > 0 {
				return w.Write(rest)
			}
			return nil
		}
	}
}

// blockWriter applies gain to a block, meters it, and encodes it.
type blockWriter struct {
	output  *wavOutputWriter
	stage   *gainStage
	maxVal  float64
	stats   *gainStats
	meter   *levelMeter
	intBuf  []int
	samples int64
}

// Write processes and encodes one block of interleaved samples.
func (w *blockWriter) Write(block []float64) error {
	scaled := w.stage.Process(block)
	w.meter.Add(scaled)

	if cap(w.intBuf) < len(scaled) {
		w.intBuf = make([]int, len(scaled))
	}
	n := denormalizeInto(w.intBuf[:len(scaled)], scaled, w.maxVal)

	if err := w.output.WriteSamples(w.intBuf[:n]); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	w.samples += int64(n)
	w.stats.blocks++
	return nil
}
