package app

import (
	"fmt"

	"rosechat/pkg/config"
)

// validateConfig checks the effective config for fatal misconfiguration
// before any resources are opened.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no effective config")
	}
	cfg := eff.Config
	tls := cfg.Server.TLS
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		return fmt.Errorf("tls requires both cert_file and key_file")
	}
	if cfg.Room.HistoryLimit < 0 {
		return fmt.Errorf("room.history_limit must be >= 0")
	}
	if cfg.Room.MessageTTL < 0 {
		return fmt.Errorf("room.message_ttl must be >= 0")
	}
	if cfg.Gateway.RateLimit.RPS < 0 {
		return fmt.Errorf("gateway.rate_limit.rps must be >= 0")
	}
	return nil
}
