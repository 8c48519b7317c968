package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/procwatch-io/procwatch/app/utils/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "zero interval",
			modify:  func(c *Config) { c.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "negative cpu threshold",
			modify:  func(c *Config) { c.CPUThreshold = -1 },
			wantErr: true,
		},
		{
			name:    "cpu threshold above 100",
			modify:  func(c *Config) { c.CPUThreshold = 100.5 },
			wantErr: true,
		},
		{
			name:    "mem threshold above 100",
			modify:  func(c *Config) { c.MemThreshold = 101 },
			wantErr: true,
		},
		{
			name:    "negative heartbeat",
			modify:  func(c *Config) { c.Heartbeat = -time.Second },
			wantErr: true,
		},
		{
			name:   "zero heartbeat disables re-emission",
			modify: func(c *Config) { c.Heartbeat = 0 },
		},
		{
			name:    "zero write failure budget",
			modify:  func(c *Config) { c.WriteFailureBudget = 0 },
			wantErr: true,
		},
		{
			name:    "zero snapshot failure budget",
			modify:  func(c *Config) { c.SnapshotFailureBudget = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "procwatch.yml")

	configYAML := `
interval: 10
cpu_threshold: 70.5
process_name: nginx
log_file: /var/log/procwatch.log
heartbeat: 60
listen_address: 127.0.0.1:8125
`
	assert.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0600))

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, config.Interval, 10*time.Second)
	assert.Equal(t, config.CPUThreshold, 70.5)
	assert.Equal(t, config.ProcessName, "nginx")
	assert.Equal(t, config.LogFile, "/var/log/procwatch.log")
	assert.Equal(t, config.Heartbeat, time.Minute)
	assert.Equal(t, config.ListenAddress, "127.0.0.1:8125")

	// fields absent from the file keep their defaults
	assert.Equal(t, config.MemThreshold, DefaultMemThreshold)
	assert.Equal(t, config.WriteFailureBudget, DefaultWriteFailureBudget)
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestConfigMatchesFilter(t *testing.T) {
	config := DefaultConfig()

	// no filter matches everything
	assert.True(t, config.MatchesFilter("nginx"))
	assert.True(t, config.MatchesFilter("bash"))

	// filter match is exact and case-sensitive
	config.ProcessName = "nginx"
	assert.True(t, config.MatchesFilter("nginx"))
	assert.False(t, config.MatchesFilter("nginx-worker"))
	assert.False(t, config.MatchesFilter("Nginx"))
	assert.False(t, config.MatchesFilter("bash"))
}
