// Copyright 2015-2016 trivago GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the leveled logging channel this module uses internally,
// adapted from gollum's core/log package: the same four channels
// (Error/Warning/Note/Debug) and Verbosity enum, but backed by logrus so a
// host application gets structured fields (partition, group, api_key)
// instead of plain text.
package log

import (
	"github.com/sirupsen/logrus"
)

// Verbosity mirrors core/log.Verbosity: higher verbosities contain all
// lower ones, i.e. VerbosityWarning also emits Error messages.
type Verbosity byte

const (
	// VerbosityError shows only error messages.
	VerbosityError Verbosity = iota
	// VerbosityWarning shows error and warning messages.
	VerbosityWarning
	// VerbosityNote shows error, warning and note messages.
	VerbosityNote
	// VerbosityDebug shows all messages.
	VerbosityDebug
)

var base = logrus.New()

func init() {
	base.SetLevel(logrus.WarnLevel)
}

// SetVerbosity sets the logrus level backing every channel.
func SetVerbosity(v Verbosity) {
	switch v {
	case VerbosityDebug:
		base.SetLevel(logrus.DebugLevel)
	case VerbosityNote:
		base.SetLevel(logrus.InfoLevel)
	case VerbosityWarning:
		base.SetLevel(logrus.WarnLevel)
	default:
		base.SetLevel(logrus.ErrorLevel)
	}
}

// SetOutput redirects every channel's destination, e.g. so a host
// application can fold this module's logs into its own logrus instance.
func SetOutput(logger *logrus.Logger) {
	base = logger
}

// Fields is a shorthand for logrus.Fields, used to attach structured
// context (group, topic, partition, generation id) to a log line.
type Fields = logrus.Fields

// Error logs at error level with the given fields.
func Error(fields Fields, format string, args ...interface{}) {
	base.WithFields(fields).Errorf(format, args...)
}

// Warning logs at warning level with the given fields.
func Warning(fields Fields, format string, args ...interface{}) {
	base.WithFields(fields).Warnf(format, args...)
}

// Note logs at info level with the given fields.
func Note(fields Fields, format string, args ...interface{}) {
	base.WithFields(fields).Infof(format, args...)
}

// Debug logs at debug level with the given fields.
func Debug(fields Fields, format string, args ...interface{}) {
	base.WithFields(fields).Debugf(format, args...)
}
