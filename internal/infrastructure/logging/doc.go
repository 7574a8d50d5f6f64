// Package logging provides structured logging using uber/zap.
//
// Two loggers live here:
//   - Logger: the structured application logger (JSON in production,
//     colored console in development)
//   - DebugLog: the namespace-tagged helper pages use for ad-hoc output,
//     silent unless the application's debug flag is set at call time
//
// Example Usage:
//
//	logger, err := logging.New(logging.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	logger.Info("Shell launched", zap.Duration("tick", time.Second))
//
//	dbg := logging.NewDebugLog(appState, nil)
//	dbg.Log("home", "loaded", 3, "items")
package logging
