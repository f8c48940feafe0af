package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const (
	redisOrderKeyPrefix = "hadiya:order:"
	redisOrdersIndexKey = "hadiya:orders:created"
	redisMaxCASAttempts = 3
)

// Redis stores every order as a JSON document and keeps a sorted set of ids
// scored by creation time for listing.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
	}
}

// ConnectRedis parses url, creates a client and checks the connection.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

type redisOrder struct {
	ID              string     `json:"id"`
	TourID          string     `json:"tourId"`
	TourName        string     `json:"tourName"`
	Price           string     `json:"price"`
	UserID          string     `json:"userId,omitempty"`
	UserName        string     `json:"userName"`
	UserPhone       string     `json:"userPhone"`
	Status          string     `json:"status"`
	ClickTransID    string     `json:"clickTransId,omitempty"`
	ClickPaydocID   string     `json:"clickPaydocId,omitempty"`
	PreparedAt      *time.Time `json:"preparedAt,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	FiscalStatus    string     `json:"fiscalStatus"`
	FiscalQRCodeURL string     `json:"fiscalQrCodeUrl,omitempty"`
	FiscalError     string     `json:"fiscalError,omitempty"`
	FiscalizedAt    *time.Time `json:"fiscalizedAt,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toRedisOrder(o entity.Order) redisOrder {
	return redisOrder{
		ID:              o.ID,
		TourID:          o.TourID,
		TourName:        o.TourName,
		Price:           o.Price.String(),
		UserID:          o.UserID,
		UserName:        o.UserName,
		UserPhone:       o.UserPhone,
		Status:          o.Status.String(),
		ClickTransID:    o.ClickTransID,
		ClickPaydocID:   o.ClickPaydocID,
		PreparedAt:      o.PreparedAt,
		PaidAt:          o.PaidAt,
		CancelledAt:     o.CancelledAt,
		FiscalStatus:    o.FiscalStatus.String(),
		FiscalQRCodeURL: o.FiscalQRCodeURL,
		FiscalError:     o.FiscalError,
		FiscalizedAt:    o.FiscalizedAt,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r redisOrder) toEntity() (entity.Order, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return entity.Order{}, fmt.Errorf("parse price of order %s: %w", r.ID, err)
	}

	return entity.Order{
		ID:              r.ID,
		TourID:          r.TourID,
		TourName:        r.TourName,
		Price:           price,
		UserID:          r.UserID,
		UserName:        r.UserName,
		UserPhone:       r.UserPhone,
		Status:          entity.OrderStatus(r.Status),
		ClickTransID:    r.ClickTransID,
		ClickPaydocID:   r.ClickPaydocID,
		PreparedAt:      r.PreparedAt,
		PaidAt:          r.PaidAt,
		CancelledAt:     r.CancelledAt,
		FiscalStatus:    entity.FiscalStatus(r.FiscalStatus),
		FiscalQRCodeURL: r.FiscalQRCodeURL,
		FiscalError:     r.FiscalError,
		FiscalizedAt:    r.FiscalizedAt,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func (r *Redis) key(id string) string {
	return redisOrderKeyPrefix + id
}

func (r *Redis) CreateOrder(ctx context.Context, o entity.Order) (entity.Order, error) {
	o.Version = 1

	b, err := json.Marshal(toRedisOrder(o))
	if err != nil {
		return entity.Order{}, fmt.Errorf("marshal order: %w", err)
	}

	created, err := r.client.SetNX(ctx, r.key(o.ID), b, 0).Result()
	if err != nil {
		return entity.Order{}, err
	}

	if !created {
		return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrAlreadyExists)
	}

	err = r.client.ZAdd(ctx, redisOrdersIndexKey, redis.Z{
		Score:  float64(o.CreatedAt.UnixMilli()),
		Member: o.ID,
	}).Err()
	if err != nil {
		return entity.Order{}, fmt.Errorf("index order %s: %w", o.ID, err)
	}

	return o, nil
}

func (r *Redis) Order(ctx context.Context, id string) (entity.Order, error) {
	return r.get(ctx, r.client, id)
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *Redis) get(ctx context.Context, c redisGetter, id string) (entity.Order, error) {
	data, err := c.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Order{}, entity.ErrNotFound
		}

		return entity.Order{}, err
	}

	var ro redisOrder

	err = json.Unmarshal(data, &ro)
	if err != nil {
		return entity.Order{}, fmt.Errorf("unmarshal order %s: %w", id, err)
	}

	return ro.toEntity()
}

// UpdateOrder replaces the order inside a WATCH transaction so that a concurrent
// writer makes it fail with ErrConflict.
func (r *Redis) UpdateOrder(ctx context.Context, o entity.Order, expectedVersion int64) (entity.Order, error) {
	key := r.key(o.ID)

	var updated entity.Order

	txf := func(tx *redis.Tx) error {
		stored, err := r.get(ctx, tx, o.ID)
		if err != nil {
			return err
		}

		if stored.Version != expectedVersion {
			return fmt.Errorf("order %s version %d: %w", o.ID, expectedVersion, entity.ErrConflict)
		}

		o.Version = expectedVersion + 1
		o.CreatedAt = stored.CreatedAt

		b, err := json.Marshal(toRedisOrder(o))
		if err != nil {
			return fmt.Errorf("marshal order: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = o

		return nil
	}

	var err error

	for range redisMaxCASAttempts {
		err = r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrConflict)
	case errors.Is(err, entity.ErrNotFound):
		return entity.Order{}, fmt.Errorf("order %s: %w", o.ID, entity.ErrNotFound)
	case err != nil:
		return entity.Order{}, err
	}

	return updated, nil
}

func (r *Redis) Orders(ctx context.Context, f entity.OrderFilter) ([]entity.Order, int, error) {
	rangeBy := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}

	if f.CreatedFrom != nil {
		rangeBy.Min = fmt.Sprint(f.CreatedFrom.UnixMilli())
	}

	if f.CreatedTo != nil {
		rangeBy.Max = fmt.Sprintf("(%d", f.CreatedTo.UnixMilli())
	}

	ids, err := r.client.ZRangeByScore(ctx, redisOrdersIndexKey, rangeBy).Result()
	if err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return []entity.Order{}, 0, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.key(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, err
	}

	all := make([]entity.Order, 0, len(values))

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var ro redisOrder

		err = json.Unmarshal([]byte(s), &ro)
		if err != nil {
			return nil, 0, fmt.Errorf("unmarshal order: %w", err)
		}

		o, err := ro.toEntity()
		if err != nil {
			return nil, 0, err
		}

		all = append(all, o)
	}

	orders, total := pageOrders(all, f)

	return orders, total, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
