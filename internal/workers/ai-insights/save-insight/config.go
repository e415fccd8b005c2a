// internal/workers/ai-insights/save-insight/config.go
package saveinsight

import (
	"time"

	"intent-insights/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	Collection string
}

func LoadConfig(wcfg config.WorkerConfig, store config.StoreConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{Timeout: timeout, Collection: store.Collection}
}
