package common

import (
	"log"
)

// StdLogger 使用标准库封装的logger,在默认logger初始化前使用
type StdLogger struct {
}

// Debugf debug
func (l *StdLogger) Debugf(format string, params ...interface{}) {
	log.Printf(format, params...)
}

// DebugEnabled is debug enable
func (l *StdLogger) DebugEnabled() bool {
	return true
}

// Infof info
func (l *StdLogger) Infof(format string, params ...interface{}) {
	log.Printf(format, params...)
}

// InfoEnabled is info enable
func (l *StdLogger) InfoEnabled() bool {
	return true
}

// Warnf warn
func (l *StdLogger) Warnf(format string, params ...interface{}) {
	log.Printf(format, params...)
}

// WarnEnabled is warn enable
func (l *StdLogger) WarnEnabled() bool {
	return true
}

// Errorf error
func (l *StdLogger) Errorf(format string, params ...interface{}) {
	log.Printf(format, params...)
}

// ErrorEnabled is error enable
func (l *StdLogger) ErrorEnabled() bool {
	return true
}

// Sync sync
func (l *StdLogger) Sync() {

}
