package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	errorLogger  *log.Logger
	errorLogPath string
	errorLogOnce sync.Once

	debugLogger *log.Logger
)

func setupLogging(debug bool) {
	ts := time.Now().Format("20060102-150405")
	errorLogPath = filepath.Join("logs", fmt.Sprintf("error-%s.log", ts))
	errorLogOnce = sync.Once{}
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
	if debug {
		debugLogger = log.New(os.Stderr, "debug: ", log.LstdFlags)
	}
}

// logError logs to stderr and, once the first error occurs, also to a log
// file created on demand.
func logError(format string, v ...interface{}) {
	if errorLogger == nil {
		errorLogger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if errorLogPath != "" {
		errorLogOnce.Do(func() {
			if err := os.MkdirAll(filepath.Dir(errorLogPath), 0755); err != nil {
				return
			}
			if f, err := os.Create(errorLogPath); err == nil {
				errorLogger.SetOutput(io.MultiWriter(os.Stderr, f))
			}
		})
	}
	errorLogger.Printf(format, v...)
}

func logDebug(format string, v ...interface{}) {
	if debugLogger == nil {
		return
	}
	debugLogger.Printf(format, v...)
}
