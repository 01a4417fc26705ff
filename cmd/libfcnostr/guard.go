package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"github.com/louisbranch/freeciv-nostr/internal/platform/cmd"
	"github.com/louisbranch/freeciv-nostr/internal/platform/config"
	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/platform/logging"
)

// logger writes to stderr only; the host process owns stdout.
var logger = sync.OnceValue(func() zerolog.Logger {
	var cfg logging.Config
	if err := config.ParseEnv(&cfg); err != nil {
		cfg = logging.Config{Level: "info"}
	}
	return logging.Component(logging.New(cfg, os.Stderr), cmd.ServiceLibrary)
})

// guard runs fn and converts any panic into StatusInternal so no Go panic
// unwinds into C frames.
func guard(op string, fn func() apperrors.Status) (status apperrors.Status) {
	defer func() {
		if r := recover(); r != nil {
			log := logger()
			log.Error().
				Str("op", op).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("recovered panic at C boundary")
			status = apperrors.StatusInternal
		}
	}()
	return fn()
}

// report logs a failed call and returns its status. Payload bytes are never
// logged.
func report(op string, err error) apperrors.Status {
	status := apperrors.StatusOf(err)
	log := logger()
	event := log.Debug()
	if status == apperrors.StatusInternal {
		event = log.Error()
	}
	event.Str("op", op).Int32("status", int32(status)).Err(err).Msg("call failed")
	return status
}
