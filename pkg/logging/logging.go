// Package logging sets up the shared logrus logger for the converge daemon
// and CLI.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// DirFlag sets the log directory.
	DirFlag = "logdir"
	// DirHelp is the help message for DirFlag
	DirHelp = "Directory to store log files"

	// FileFlag sets the log file name. "-", "stderr" and "stdout" log to
	// the console.
	FileFlag = "logfile"
	// FileHelp is the help message for FileFlag
	FileHelp = "Name for log file, or - for stderr"

	// LevelFlag sets the log level.
	LevelFlag = "loglevel"
	// LevelHelp is the help message for LevelFlag
	LevelHelp = "Severity of messages to be logged"

	// FormatFlag selects text or json output.
	FormatFlag = "logformat"
	// FormatHelp is the help message for FormatFlag
	FormatHelp = "Log output format (text or json)"

	// YY-MM-DD HH:MM:SS.SSSSSS
	timestampFormat = "2006-01-02 15:04:05.000000"
)

// Config holds the logging settings.
type Config struct {
	Dir    string
	File   string
	Level  string
	Format string
	// SourceLocation adds file:function:line of the caller to every entry.
	SourceLocation bool
}

var (
	logWriter io.WriteCloser
	hookAdded bool
)

func setLogOutput(w io.Writer) {
	log.SetOutput(w)
	stdlog.SetOutput(log.StandardLogger().Writer())
}

func formatter(format string) log.Formatter {
	if strings.ToLower(format) == "json" {
		return &log.JSONFormatter{TimestampFormat: timestampFormat}
	}
	return &log.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat}
}

// Init configures the standard logrus logger. It should be called as early
// as possible; packages keep logging through logrus directly.
func Init(c Config) error {
	if c.SourceLocation && !hookAdded {
		log.AddHook(SourceLocationHook{})
		hookAdded = true
	}

	Close()

	l, err := log.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		setLogOutput(os.Stderr)
		log.WithError(err).Debug("Failed to parse log level")
		return err
	}
	log.SetLevel(l)
	log.SetFormatter(formatter(c.Format))

	switch strings.ToLower(c.File) {
	case "", "-", "stderr":
		setLogOutput(os.Stderr)
	case "stdout":
		setLogOutput(os.Stdout)
	default:
		logFilePath := path.Join(c.Dir, c.File)
		f, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			setLogOutput(os.Stderr)
			log.WithError(err).Debugf("Failed to open log file %s", logFilePath)
			return err
		}
		setLogOutput(f)
		logWriter = f
	}
	return nil
}

// Close closes the log file opened by Init, if any, and logs to stderr
// again.
func Close() {
	if logWriter != nil {
		setLogOutput(os.Stderr)
		logWriter.Close()
		logWriter = nil
	}
}
