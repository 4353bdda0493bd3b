package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	mem "dreamsaver/pkg/memcache"
)

const sweepInterval = 5 * time.Minute

var Module = fx.Options(
	fx.Provide(
		provideTTLStore,
		func(s *mem.TTLStore) mem.ResetTokenStore { return s },
		func(s *mem.TTLStore) mem.RevocationList { return s },
	),
)

// One store holds reset codes and revoked token ids; keys never collide
// since reset keys contain '|' and token ids are UUIDs.
func provideTTLStore(lc fx.Lifecycle, log *zap.Logger) *mem.TTLStore {
	store := mem.NewTTLStore()
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("ttl store swept", zap.Int("removed", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(done)
			return nil
		},
	})
	return store
}
