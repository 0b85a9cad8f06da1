/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPort         = 8900
	DefaultLockTimeout  = 5 * time.Second
	DefaultTxTimeout    = 10 * time.Second
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 50 * time.Millisecond
	DefaultMetricsPath  = "/metrics"
)

// LoadConfig loads the deployment configuration, expanding environment variables before parsing.
func LoadConfig(crsHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(crsHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values with the service defaults.
func (c *Config) ApplyDefaults() {

	if c.Addr.Port == 0 {
		c.Addr.Port = DefaultPort
	}
	if c.Log.LogLevel == "" {
		c.Log.LogLevel = "INFO"
	}
	if c.DataSource.SSLMode == "" {
		c.DataSource.SSLMode = "disable"
	}
	if c.Identify.LockTimeout <= 0 {
		c.Identify.LockTimeout = DefaultLockTimeout
	}
	if c.Identify.TxTimeout <= 0 {
		c.Identify.TxTimeout = DefaultTxTimeout
	}
	if c.Identify.MaxAttempts <= 0 {
		c.Identify.MaxAttempts = DefaultMaxAttempts
	}
	if c.Identify.RetryBackoff <= 0 {
		c.Identify.RetryBackoff = DefaultRetryBackoff
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// OverrideCRSRuntime replaces the runtime configuration. Used by tests.
func OverrideCRSRuntime(conf Config) {
	conf.ApplyDefaults()
	runtimeConfig = &CRSRuntime{
		Config: conf,
	}
}
