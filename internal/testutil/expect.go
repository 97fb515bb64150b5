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

// Package testutil holds the assertion helper and fake collaborators
// shared by every _test.go file in this module.
package testutil

import (
	"bytes"
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/pkg/errors"
)

// Expect is a helper construct for unittesting, modeled on gollum's
// shared.Expect: scope-prefixed, file:line-annotated test failures instead
// of a generic assertion library.
type Expect struct {
	t *testing.T
}

// NewExpect returns a new Expect bound to a unittest object.
func NewExpect(t *testing.T) Expect {
	return Expect{t}
}

func (e Expect) print(message string) {
	_, file, line, _ := runtime.Caller(2)
	e.t.Errorf("%s(%d): %s", file, line, message)
}

func (e Expect) printf(format string, args ...interface{}) {
	_, file, line, _ := runtime.Caller(2)
	e.t.Errorf(fmt.Sprintf("%s(%d): %s", file, line, format), args...)
}

// True tests if the given value is true.
func (e Expect) True(val bool) bool {
	if !val {
		e.print("Expected true")
		return false
	}
	return true
}

// False tests if the given value is false.
func (e Expect) False(val bool) bool {
	if val {
		e.print("Expected false")
		return false
	}
	return true
}

// Nil tests if the given value is nil.
func (e Expect) Nil(val interface{}) bool {
	if val == nil {
		return true
	}
	rval := reflect.ValueOf(val)
	switch rval.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		if !rval.IsNil() {
			e.print("Expected nil")
			return false
		}
	default:
		e.print("Expected nil")
		return false
	}
	return true
}

// NotNil tests if the given value is not nil.
func (e Expect) NotNil(val interface{}) bool {
	if val == nil {
		e.print("Expected not nil")
		return false
	}
	rval := reflect.ValueOf(val)
	switch rval.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		if rval.IsNil() {
			e.print("Expected not nil")
			return false
		}
	}
	return true
}

// IntEq tests two integers on equality.
func (e Expect) IntEq(val1 int, val2 int) bool {
	if val1 != val2 {
		e.printf("Expected \"%d\", got \"%d\"", val1, val2)
		return false
	}
	return true
}

// Int32Eq tests two int32 values on equality.
func (e Expect) Int32Eq(val1 int32, val2 int32) bool {
	if val1 != val2 {
		e.printf("Expected \"%d\", got \"%d\"", val1, val2)
		return false
	}
	return true
}

// Int64Eq tests two int64 values on equality.
func (e Expect) Int64Eq(val1 int64, val2 int64) bool {
	if val1 != val2 {
		e.printf("Expected \"%d\", got \"%d\"", val1, val2)
		return false
	}
	return true
}

// StringEq tests two strings on equality.
func (e Expect) StringEq(val1 string, val2 string) bool {
	if val1 != val2 {
		e.printf("Expected \"%s\", got \"%s\"", val1, val2)
		return false
	}
	return true
}

// BytesEq tests two byte slices on equality.
func (e Expect) BytesEq(val1 []byte, val2 []byte) bool {
	if !bytes.Equal(val1, val2) {
		e.printf("Expected %v, got %v", val1, val2)
		return false
	}
	return true
}

// Equal does a reflect.DeepEqual comparison, for struct/slice results that
// don't warrant their own typed helper.
func (e Expect) Equal(expected interface{}, actual interface{}) bool {
	if !reflect.DeepEqual(expected, actual) {
		e.printf("Expected %#v, got %#v", expected, actual)
		return false
	}
	return true
}

// NoError tests that err is nil, printing its message otherwise.
func (e Expect) NoError(err error) bool {
	if err != nil {
		e.printf("Expected no error, got %s", err.Error())
		return false
	}
	return true
}

// ErrorEq tests that err is non-nil and its causal chain matches target.
func (e Expect) ErrorEq(target error, err error) bool {
	if err == nil {
		e.printf("Expected error %s, got none", target.Error())
		return false
	}
	if errors.Cause(err) != target {
		e.printf("Expected error %s, got %s", target.Error(), err.Error())
		return false
	}
	return true
}
