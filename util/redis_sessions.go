package util

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/patient-registry/config"
	"github.com/redis/go-redis/v9"
)

// SessionKey is the Redis key caching a session token.
func SessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func userSessionsKey(uid string) string {
	return fmt.Sprintf("user_sessions:%s", uid)
}

// AddSessionToUserSet records token in the per-user Redis set. The set expires
// together with the newest session it holds.
func AddSessionToUserSet(ctx context.Context, uid, token string, ttl time.Duration) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(uid)
	if err := rdb.SAdd(ctx, key, token).Err(); err != nil {
		return err
	}
	return rdb.Expire(ctx, key, ttl).Err()
}

const removeTokenScript = `
local removed = redis.call('SREM', KEYS[1], ARGV[1])
if removed > 0 and redis.call('SCARD', KEYS[1]) == 0 then
	redis.call('DEL', KEYS[1])
end
return removed
`

// RemoveSessionTokenFromUserSet removes token from the per-user set and deletes the set once empty.
func RemoveSessionTokenFromUserSet(ctx context.Context, uid, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Eval(ctx, removeTokenScript, []string{userSessionsKey(uid)}, token).Err()
}

// InvalidateUserSessions deletes every cached session of uid and the per-user set.
func InvalidateUserSessions(ctx context.Context, uid string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	key := userSessionsKey(uid)
	members, err := rdb.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range members {
		_ = rdb.Del(ctx, SessionKey(tok)).Err()
	}
	return rdb.Del(ctx, key).Err()
}
