package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const orderKeyPrefix = "order:"

// LeaseStore keeps the "awaiting payment until T" marker per order.
// Acquire is create-only (SET NX): a re-delivered pending webhook never
// resets the countdown.
type LeaseStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewLeaseStore(client *redis.Client, ttl time.Duration) *LeaseStore {
	return &LeaseStore{Client: client, TTL: ttl}
}

func OrderKey(orderID uint) string {
	return orderKeyPrefix + strconv.FormatUint(uint64(orderID), 10)
}

// ParseOrderKey extracts the order id from an expired-key notification.
func ParseOrderKey(key string) (uint, bool) {
	if !strings.HasPrefix(key, orderKeyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(key, orderKeyPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Acquire sets the lease if absent. Returns false when a lease already
// exists, leaving its TTL untouched.
func (s *LeaseStore) Acquire(ctx context.Context, orderID uint) (bool, error) {
	return s.Client.SetNX(ctx, OrderKey(orderID), "1", s.TTL).Result()
}

// Release drops the lease once payment is final.
func (s *LeaseStore) Release(ctx context.Context, orderID uint) error {
	return s.Client.Del(ctx, OrderKey(orderID)).Err()
}
