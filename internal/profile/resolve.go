package profile

import (
	"fmt"

	"github.com/matheus3301/wppview/internal/config"
)

const DefaultName = "main"

// Resolve determines the active profile using precedence:
// 1. flagOverride (--profile flag)
// 2. cfg.DefaultProfile
// 3. "main"
func Resolve(flagOverride string, cfg *config.Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil && cfg.DefaultProfile != "" {
		return cfg.DefaultProfile
	}
	return DefaultName
}

// Select resolves the active profile and validates it. A bad name is
// reported with where it came from.
func Select(flagOverride string, cfg *config.Config) (string, error) {
	name := Resolve(flagOverride, cfg)
	if err := ValidateName(name); err != nil {
		if flagOverride == "" {
			return "", fmt.Errorf("default profile: %w", err)
		}
		return "", fmt.Errorf("--profile: %w", err)
	}
	return name, nil
}
