package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults mirror the original deployment: pjsua bundled next to the
// binary, 45s ring allowance, unlimited talk time.
const (
	DefaultPort        = 8000
	DefaultPJSUAPath   = "./pjproject-2.15.1/pjsip-apps/bin/pjsua-x86_64-unknown-linux-gnu"
	DefaultRingTimeout = 45 * time.Second
)

// Config holds everything needed to serve the API and launch the call
// agent. SIP fields are validated at call time, not at startup.
type Config struct {
	Port int

	SIPID       string
	SIPPassword string
	SIPDomain   string
	LocalPort   int

	PJSUAPath string

	RingTimeout time.Duration
	TalkTimeout time.Duration
}

// FromEnv builds a Config from the process environment. Unparseable
// numeric values fall back to defaults.
func FromEnv() Config {
	cfg := Config{
		Port:        DefaultPort,
		PJSUAPath:   DefaultPJSUAPath,
		RingTimeout: DefaultRingTimeout,
	}

	cfg.SIPID = os.Getenv("SIP_ID")
	cfg.SIPPassword = os.Getenv("SIP_PASS")
	cfg.SIPDomain = os.Getenv("SIP_DOMAIN")

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("SIP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LocalPort = n
		}
	}
	if v := os.Getenv("PJSUA_PATH"); v != "" {
		cfg.PJSUAPath = v
	}
	if v := os.Getenv("RING_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RingTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("TALK_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TalkTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}

// ValidateSIP checks the fields required to launch the call agent.
func (c Config) ValidateSIP() error {
	if c.SIPID == "" || c.SIPPassword == "" || c.SIPDomain == "" {
		return fmt.Errorf("SIP_ID, SIP_PASS and SIP_DOMAIN must be set")
	}
	info, err := os.Stat(c.PJSUAPath)
	if err != nil {
		return fmt.Errorf("call agent binary not found: %s", c.PJSUAPath)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("call agent binary not executable: %s", c.PJSUAPath)
	}
	return nil
}
