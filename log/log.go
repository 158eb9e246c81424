package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Уровни логирования
const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
)

var Stdlog, Errlog *log.Logger

var (
	mu     sync.Mutex
	logDir string
	debug  bool
	now    = time.Now
)

func init() {
	Stdlog = log.New(os.Stdout, "Success: ", log.Ldate|log.Ltime)
	Errlog = log.New(os.Stderr, "Error: ", log.Ldate|log.Ltime)
}

// Setup enables file logging into dir. An empty dir keeps console-only output.
func Setup(dir string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir %s: %w", dir, err)
		}
	}
	logDir = dir
	debug = verbose
	return nil
}

// SetOutput redirects console output; used by tests and quiet CLIs.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	Stdlog.SetOutput(stdout)
	Errlog.SetOutput(stderr)
}

// LogMessage writes message at level to the console and, when a log directory
// is configured, to the rotating "stdlog" file.
func LogMessage(level, message string) {
	if level == ERROR {
		err := errors.New(message)
		PrintIfErr("", &err)
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if level == DEBUG && !debug {
		return
	}

	out, closeFn := writerFor("stdlog", Stdlog.Writer())
	defer closeFn()

	logger := log.New(out, "Success: ", log.Ldate|log.Ltime)
	logger.Printf("[%s] %s\n", level, message)
}

func Debugf(format string, args ...any) { LogMessage(DEBUG, fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { LogMessage(INFO, fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { LogMessage(WARN, fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { LogMessage(ERROR, fmt.Sprintf(format, args...)) }

// PrintIfErr logs *err with msg as prefix when it is non-nil.
func PrintIfErr(msg string, err *error) {
	if err == nil || *err == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	out, closeFn := writerFor("errors", Errlog.Writer())
	defer closeFn()

	logger := log.New(out, "Error: ", log.Ldate|log.Ltime)
	if msg == "" {
		logger.Printf("[%s] %v\n", ERROR, *err)
		return
	}
	logger.Printf("[%s] %s: %v\n", ERROR, msg, *err)
}

// writerFor returns console plus the current rotated file for kind.
// Callers hold mu.
func writerFor(kind string, console io.Writer) (io.Writer, func()) {
	if logDir == "" {
		return console, func() {}
	}

	logPath, suffix := getLogFilePath(logDir, kind, now())
	rotateLogs(logDir, kind, suffix)

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		fmt.Fprintf(Errlog.Writer(), "[WARN] open log file %s: %v\n", logPath, err)
		return console, func() {}
	}
	return io.MultiWriter(console, logFile), func() { logFile.Close() }
}

// getLogFilePath определяет имя файла лога и возвращает суффикс для ротации:
// 0 для 1-9 числа, 1 для 10-19, 2 для остальных дней.
func getLogFilePath(dir, kind string, t time.Time) (string, int) {
	var suffix int
	switch day := t.Day(); {
	case day <= 9:
		suffix = 0
	case day <= 19:
		suffix = 1
	default:
		suffix = 2
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%d.log", kind, suffix)), suffix
}

// rotateLogs реализует "круговую" ротацию: файл следующего периода удаляется,
// чтобы в него писать заново, когда до него дойдёт очередь.
func rotateLogs(dir, kind string, currentSuffix int) {
	if currentSuffix < 0 || currentSuffix > 2 {
		return
	}
	next := (currentSuffix + 1) % 3
	fileToDelete := filepath.Join(dir, fmt.Sprintf("%s-%d.log", kind, next))

	if _, err := os.Stat(fileToDelete); err == nil {
		if err := os.Remove(fileToDelete); err != nil {
			fmt.Fprintf(Errlog.Writer(), "[WARN] remove %s: %v\n", fileToDelete, err)
		}
	}
}
