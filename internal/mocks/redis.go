package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// RedisClient is a testify mock of redis.Client
type RedisClient struct {
	mock.Mock
}

func (_m *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ret := _m.Called(ctx, key, value, ttl)
	return ret.Error(0)
}

func (_m *RedisClient) Get(ctx context.Context, key string) (string, error) {
	ret := _m.Called(ctx, key)
	return ret.String(0), ret.Error(1)
}

func (_m *RedisClient) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	ret := _m.Called(ctx, key, member)
	return ret.Bool(0), ret.Error(1)
}

func (_m *RedisClient) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *RedisClient) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}
