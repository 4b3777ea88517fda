// Package bootstrap wires infrastructure shared by the ProjectEye binaries.
package bootstrap

import (
	"context"
	"fmt"

	common "github.com/NordCoder/ProjectEye/internal/config/common"
	pg "github.com/NordCoder/ProjectEye/internal/repository/postgres"
	"github.com/NordCoder/ProjectEye/internal/tokenstore"
	"go.uber.org/zap"
)

// OpenTokenStore builds the configured credential backend. db is only
// consulted for the postgres driver. The returned closer is never nil.
func OpenTokenStore(ctx context.Context, cfg common.Store, db *pg.DB, log *zap.Logger) (tokenstore.Store, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	switch cfg.Driver {
	case common.DriverMemory:
		log.Debug("token store", zap.String("driver", cfg.Driver))
		return tokenstore.NewMemory(), noop, nil
	case common.DriverFile:
		s, err := tokenstore.NewFile(cfg.Path, cfg.Passphrase)
		if err != nil {
			return nil, noop, err
		}
		log.Debug("token store", zap.String("driver", cfg.Driver), zap.String("path", cfg.Path))
		return s, noop, nil
	case common.DriverRedis:
		s, err := tokenstore.NewRedis(ctx, cfg.Redis.URL, cfg.Redis.Prefix, cfg.Redis.TTL)
		if err != nil {
			return nil, noop, err
		}
		log.Debug("token store", zap.String("driver", cfg.Driver), zap.String("prefix", cfg.Redis.Prefix))
		return s, s.Close, nil
	case common.DriverPostgres:
		if db == nil {
			return nil, noop, fmt.Errorf("token store: postgres driver needs a database")
		}
		log.Debug("token store", zap.String("driver", cfg.Driver), zap.String("namespace", cfg.Namespace))
		return pg.NewCredentialRepo(db, cfg.Namespace), noop, nil
	}
	return nil, noop, common.ErrConfig("unknown store.driver " + cfg.Driver)
}
