package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"schoolsync/backend/foundation/web"
	"schoolsync/backend/internal/auth"
	"schoolsync/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const kioskTokenTTL = 10 * time.Minute

// SchoolResolver is the slice of the school repository kiosk auth needs.
type SchoolResolver interface {
	GetByToken(ctx context.Context, token string) (entity.School, error)
}

// KioskTokenCacheKey is the redis key a kiosk token maps to. Shared with the
// school controller so token rotation can drop the entry.
func KioskTokenCacheKey(token string) string {
	return "kiosk_token:" + token
}

// AuthenticateKiosk resolves the opaque school token carried by every sync
// request. An unknown or missing token rejects the whole request before any
// event is processed. Resolved ids are cached in redis; rotation deletes the
// cache entry so the old token dies immediately.
func AuthenticateKiosk(schools SchoolResolver, redisDB *redis.Client) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {

			// Expecting: Bearer <token>
			authStr := c.Request.Header.Get("authorization")

			parts := strings.Split(authStr, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}
			token := parts[1]

			schoolID, ok := cachedSchoolID(c.Ctx, redisDB, token)
			if !ok {
				detail, err := schools.GetByToken(c.Ctx, token)
				if err != nil {
					return c.RespondError(err)
				}
				schoolID = detail.ID

				if redisDB != nil {
					redisDB.Set(c.Ctx, KioskTokenCacheKey(token), strconv.Itoa(schoolID), kioskTokenTTL)
				}
			}

			c.Ctx = context.WithValue(c.Ctx, auth.SchoolKey, auth.SchoolClaims{SchoolID: schoolID})

			return handler(c)
		}

		return h
	}

	return m
}

func cachedSchoolID(ctx context.Context, redisDB *redis.Client, token string) (int, bool) {
	if redisDB == nil {
		return 0, false
	}

	val, err := redisDB.Get(ctx, KioskTokenCacheKey(token)).Result()
	if err != nil {
		// Cache miss or redis down, fall through to the database.
		return 0, false
	}

	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}

	return id, true
}
