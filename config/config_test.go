package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	t.Setenv("SHIFT_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Generator.Timeout != 60*time.Second {
		t.Errorf("期望 generator.timeout=60s，实际=%s", cfg.Generator.Timeout)
	}
	if cfg.Generator.MinDailyHeadcount != 2 {
		t.Errorf("期望 min_daily_headcount=2，实际=%d", cfg.Generator.MinDailyHeadcount)
	}
	if cfg.Schedule.Timezone != "UTC" {
		t.Errorf("期望默认时区 UTC，实际=%s", cfg.Schedule.Timezone)
	}
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8080},
		Auth:      AuthConfig{JWTSecret: "short"},
		Generator: GeneratorConfig{Timeout: time.Second},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("短密钥应校验失败")
	}
}

func TestValidate_RejectsBadTimezone(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: 8080},
		Auth:      AuthConfig{JWTSecret: "0123456789abcdef0123"},
		Generator: GeneratorConfig{Timeout: time.Second},
		Schedule:  ScheduleConfig{Timezone: "Mars/Olympus"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("无效时区应校验失败")
	}
}

func TestScheduleConfig_Weekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		ok   bool
	}{
		{"", time.Monday, true},
		{"Sunday", time.Sunday, true},
		{"saturday", time.Saturday, true},
		{"someday", time.Monday, false},
	}
	for _, tt := range tests {
		c := ScheduleConfig{WeekStart: tt.in}
		got, err := c.Weekday()
		if (err == nil) != tt.ok {
			t.Errorf("WeekStart=%q: err=%v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("WeekStart=%q: 期望 %s，实际 %s", tt.in, tt.want, got)
		}
	}
}
