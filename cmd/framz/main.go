// Command framz reads a file of length-prefixed binary records, runs it
// through the decode and normalize pipeline, and prints the surviving
// records in order.
//
// Configuration comes from the environment (FRAMZ_ prefix) with the input
// path also accepted as the first positional argument:
//
//	FRAMZ_INPUT            path to the framed input file (default input.bin)
//	FRAMZ_MAX_RECORD_BYTES cap on a single record's payload size (0 = off)
//	FRAMZ_MAX_RECORDS      cap on the record count per file (0 = off)
//	FRAMZ_LOG_LEVEL        zerolog level (default info)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/zoobzio/framz"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("framz")
	v.AutomaticEnv()
	v.SetDefault("input", "input.bin")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_record_bytes", 0)
	v.SetDefault("max_records", 0)

	level, err := zerolog.ParseLevel(v.GetString("log_level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(v, logger); err != nil {
		os.Exit(1)
	}
}

func run(v *viper.Viper, logger zerolog.Logger) error {
	input := v.GetString("input")
	if len(os.Args) > 1 {
		input = os.Args[1]
	}

	decoder := framz.Decoder{
		MaxRecordBytes: v.GetUint32("max_record_bytes"),
		MaxRecords:     v.GetInt("max_records"),
	}

	pipeline := framz.Then(
		framz.Then(
			framz.New("framz", framz.FileSource("read")),
			framz.DecodeStage("decode", decoder),
		),
		framz.NormalizeStage("normalize"),
	)
	defer pipeline.Close() //nolint:errcheck

	logger.Debug().Str("input", input).Strs("stages", pipeline.Names()).Msg("running pipeline")

	records, err := pipeline.Process(context.Background(), input)
	if err != nil {
		logger.Error().Err(err).Str("input", input).Msg("pipeline failed")
		return err
	}

	for i, rec := range records {
		fmt.Printf("Record #%d: %q\n", i, rec)
	}
	logger.Info().Int("records", len(records)).Msg("pipeline complete")
	return nil
}
