package auth

import (
	"KeyVault/internal/model"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserGetter — источник пользователей для проверки сессии.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// Resolver превращает сессионный токен в пользователя.
type Resolver struct {
	users  UserGetter
	secret []byte
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewResolver(users UserGetter, secret []byte, ttl time.Duration, logger *zap.SugaredLogger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{users: users, secret: secret, ttl: ttl, logger: logger}
}

// TTL — срок жизни выдаваемых токенов.
func (r *Resolver) TTL() time.Duration { return r.ttl }

// Issue выдаёт токен пользователю.
func (r *Resolver) Issue(userID int64) (string, error) {
	return GenerateToken(userID, r.secret, r.ttl)
}

// Resolve возвращает пользователя по токену или nil.
// Ошибки проверки не возвращаются наружу, только логируются.
func (r *Resolver) Resolve(ctx context.Context, credential string) *model.User {
	if credential == "" {
		return nil
	}
	userID, err := ParseToken(credential, r.secret)
	if err != nil {
		r.logger.Debugw("session token rejected", "error", err)
		return nil
	}
	u, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warnw("session token for missing user", "user_id", userID)
		} else {
			r.logger.Errorw("resolve user failed", "user_id", userID, "error", err)
		}
		return nil
	}
	return u
}
