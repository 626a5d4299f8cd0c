// Package logging builds slog loggers and carries them through contexts.
//
// Loggers write JSON by default. LOG_LEVEL selects debug, info, warn or
// error, and LOG_FORMAT=text switches to the human readable handler.
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, logger))
//	logging.FromContext(ctx).InfoContext(ctx, "summarized")
package logging
