// Package common 提供日志,配置等基础的支持
package common

import (
	"sync"
)

// LogLevel 日志级别
type LogLevel string

// 日志级别常量
const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

// 运行环境常量
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Logger 统一的日志接口
type Logger interface {
	Debugf(format string, params ...interface{})

	DebugEnabled() bool

	Infof(format string, params ...interface{})

	InfoEnabled() bool

	Warnf(format string, params ...interface{})

	WarnEnabled() bool

	Errorf(format string, params ...interface{})

	ErrorEnabled() bool

	// Sync 刷新缓冲的日志
	Sync()
}

var (
	loggerMu sync.RWMutex
	logger   Logger = &StdLogger{}
)

// initLogger 使用conf初始化默认的logger
func initLogger(conf *LogConfig) error {
	l := NewZapLogger(conf)
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger.Sync()
	logger = l
	return nil
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger 替换默认的logger
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Debugf debug
func Debugf(format string, params ...interface{}) {
	currentLogger().Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	currentLogger().Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	currentLogger().Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	currentLogger().Errorf(format, params...)
}

// Logf 按level记录日志
func Logf(level LogLevel, format string, params ...interface{}) {
	switch level {
	case Debug:
		Debugf(format, params...)
	case Warn:
		Warnf(format, params...)
	case Error:
		Errorf(format, params...)
	default:
		Infof(format, params...)
	}
}
