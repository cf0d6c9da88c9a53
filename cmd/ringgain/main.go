// Command ringgain applies a fixed gain to a WAV file while streaming it
// through a bounded ring buffer.
//
// Usage:
//
//	ringgain -gain-db -6 input.wav output.wav
//	ringgain -gain-db 3 -block 1024 -capacity 16384 input.wav output.wav
//	ringgain -v -chunk 2048 input.wav output.wav
//
// A decoder goroutine fills the ring buffer in -chunk frame reads and waits
// for space instead of overwriting. The writer drains it in fixed -block
// frame blocks, so the output is re-chunked independently of the input.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	ringbuffer "github.com/tphakala/go-audio-ringbuffer"
)

const (
	// Streaming defaults, in frames (one sample per channel).
	defaultChunkFrames    = 4096
	defaultBlockFrames    = 1024
	defaultCapacityFrames = 16384

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%
	decibelFactor    = 20.0

	// CLI defaults
	minRequiredArgs = 2
	percentScale    = 100

	// WAV audio format tag for integer PCM
	wavFormatPCM = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	gainDB := flag.Float64("gain-db", 0, "Gain to apply in dB (negative attenuates)")
	chunk := flag.Int("chunk", defaultChunkFrames, "Frames decoded per read")
	block := flag.Int("block", defaultBlockFrames, "Frames written per output block")
	capacity := flag.Int("capacity", defaultCapacityFrames, "Ring buffer capacity in frames")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -gain-db -6 input.wav quiet.wav   # Halve the amplitude\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -gain-db 3 -block 256 in.wav out.wav # Small output blocks\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	cfg := streamConfig{
		chunkFrames:    *chunk,
		blockFrames:    *block,
		capacityFrames: *capacity,
		gain:           dbToLinear(*gainDB),
		verbose:        *verbose,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath := args[0]
	outputPath := args[1]

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Gain: %+.2f dB (x%.6f)", *gainDB, cfg.gain)
		log.Printf("Frames: chunk %d, block %d, capacity %d", cfg.chunkFrames, cfg.blockFrames, cfg.capacityFrames)
		log.Printf("SIMD: %s", ringbuffer.SIMDInfo())
	}

	start := time.Now()
	stats, err := processFile(inputPath, outputPath, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit\n", stats.rate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d frames in -> %d frames out (%d blocks)\n", stats.inputFrames, stats.outputFrames, stats.blocks)
	fmt.Printf("  Output peak %.2f dBFS, RMS %.2f dBFS\n", stats.peakDBFS, stats.rmsDBFS)
	if stats.dropped > 0 {
		fmt.Printf("  WARNING: %d samples dropped\n", stats.dropped)
	}
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.rate)/elapsed.Seconds())

	return nil
}
