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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
}

type DataSourceConfig struct {
	Hostname        string        `yaml:"hostname"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// IdentifyConfig bounds the transactional identify unit of work.
type IdentifyConfig struct {
	// LockTimeout is how long a transaction waits on a contact row or identifier lock.
	LockTimeout time.Duration `yaml:"lock_timeout"`
	// TxTimeout bounds a whole identify transaction when the caller gave no deadline.
	TxTimeout time.Duration `yaml:"tx_timeout"`
	// MaxAttempts is the number of times a retryable storage failure is replayed.
	MaxAttempts int `yaml:"max_attempts"`
	// RetryBackoff is multiplied by the attempt number between replays.
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Identify   IdentifyConfig   `yaml:"identify"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
