package logger

import "github.com/rs/zerolog"

// reset tears down the singleton so that the next Init call rebuilds it.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	initialized = false
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}
