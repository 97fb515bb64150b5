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

// Package config is the structured options record the offset manager is
// configured with, adapted from gollum's core.PluginConfig: the same
// key/value Settings map and coercion helpers, plus a standalone YAML
// loader for a dedicated config file.
package config

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Storage names which backend an OffsetCommit/OffsetFetch pair talks to,
// selecting the v0 (ZooKeeper) or v1 (Kafka) request version.
type Storage string

// Valid Storage values.
const (
	StorageKafka     Storage = "kafka"
	StorageZookeeper Storage = "zookeeper"
)

// Settings is a key/value map of raw plugin-style configuration, the same
// shape as core.ConfigKeyValueMap.
type Settings map[string]interface{}

// Config is the offset manager's configuration record: §3's
// {auto_commit, interval_ms, max_buffers, storage} plus the topic/group
// identity a manager is bound to.
type Config struct {
	Group      string
	Topic      string
	Partitions int32

	AutoCommit bool
	Interval   time.Duration
	MaxBuffers int
	Storage    Storage
}

// Default returns a Config with spec.md §3's defaults:
// interval_ms=500, max_buffers=50, auto_commit=true, storage=kafka.
func Default(group, topic string, partitions int32) Config {
	return Config{
		Group:      group,
		Topic:      topic,
		Partitions: partitions,
		AutoCommit: true,
		Interval:   500 * time.Millisecond,
		MaxBuffers: 50,
		Storage:    StorageKafka,
	}
}

// Read overlays non-default values found in settings onto cfg, mirroring
// core.PluginConfig.Read's per-key switch and configReadInt/configReadBool
// coercion helpers.
func (cfg *Config) Read(settings Settings) error {
	for key, value := range settings {
		switch key {
		case "AutoCommit":
			b, err := readBool(key, value)
			if err != nil {
				return err
			}
			cfg.AutoCommit = b

		case "IntervalMs":
			n, err := readInt(key, value)
			if err != nil {
				return err
			}
			cfg.Interval = time.Duration(n) * time.Millisecond

		case "MaxBuffers":
			n, err := readInt(key, value)
			if err != nil {
				return err
			}
			cfg.MaxBuffers = n

		case "Storage":
			s, err := readString(key, value)
			if err != nil {
				return err
			}
			switch Storage(s) {
			case StorageKafka, StorageZookeeper:
				cfg.Storage = Storage(s)
			default:
				return errors.Errorf("config: %q is not a valid Storage value", s)
			}
		}
	}
	return nil
}

// LoadFile reads a standalone YAML config file (the dedicated offsetctl
// shape, as opposed to embedding inside a larger gollum-style plugin
// tree) into a fresh Config layered over Default's values.
func LoadFile(path, group, topic string, partitions int32) (Config, error) {
	cfg := Default(group, topic, partitions)

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}

	var raw Settings
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Read(raw); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readBool(key string, val interface{}) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, errors.Errorf("config: %q is expected to be a boolean", key)
	}
	return b, nil
}

func readInt(key string, val interface{}) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	}
	return 0, errors.Errorf("config: %q is expected to be an integer", key)
}

func readString(key string, val interface{}) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", errors.Errorf("config: %q is expected to be a string", key)
	}
	return s, nil
}
