package loader

import (
	"strings"

	"github.com/okian/handball-elo/internal/domain/model"
	"github.com/okian/handball-elo/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithClubCodes adds or overrides club name to code mappings.
func WithClubCodes(codes map[string]string) Option {
	return func(l *Loader) {
		for name, code := range codes {
			if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
				l.clubs[model.NormalizeName(name)] = model.ClubCode(code)
			}
		}
	}
}

// WithLeagues restricts loading to the named league directories.
func WithLeagues(names ...string) Option {
	return func(l *Loader) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				l.leagues = append(l.leagues, n)
			}
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}
