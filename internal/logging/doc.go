// Package logging provides structured logging for lightgit.
//
// [Logger] wraps log/slog's JSON handler and carries persistent attributes
// through child loggers. The tracker, the lookup mechanism and the
// CLI each log through a child [Logger] tagged with their component name.
//
// # Thread Safety
//
// [Logger] is safe for concurrent use. Child loggers created via With*
// methods share the underlying writer, and closing any of them closes the
// shared log file.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/state", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	trackerLog := logger.WithComponent("tracker")
//	trackerLog.Debug("batch drawn", "size", 3, "dir", "/src/app")
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"batch drawn","component":"tracker","size":3,"dir":"/src/app"}
//
// # Testing
//
// Use [NopLogger] to discard all output, or [NewWriterLogger] with a
// bytes.Buffer to assert on emitted entries.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  dir: ""        # empty means <config dir>/logs
package logging
