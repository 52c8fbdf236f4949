package kit

import "go.uber.org/zap"

// NewLogger builds the service logger. Non-production environments get
// the human-readable development encoder.
func NewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env != "production" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}
