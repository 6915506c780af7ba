package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("storage: not found")
	ErrConflict  = errors.New("storage: conflict")
	ErrMalformed = errors.New("storage: malformed value")
)

type KVStore interface {
	GetEntry(ctx context.Context, key string) (Entry, error)
	PutEntry(ctx context.Context, in Entry) error
	DeleteEntry(ctx context.Context, key string) error
	ListEntries(ctx context.Context, filter EntryListFilter) ([]Entry, error)
}

type StatsStore interface {
	UpsertDailyStat(ctx context.Context, in DailyStat) error
	GetDailyStat(ctx context.Context, day string) (DailyStat, error)
	ListDailyStats(ctx context.Context, filter DailyStatFilter) ([]DailyStat, error)
}

type AccountStore interface {
	CreateUser(ctx context.Context, in User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	PutProfile(ctx context.Context, in Profile) error
	GetProfile(ctx context.Context, userID string) (Profile, error)
}

type Repository interface {
	KVStore
	StatsStore
	AccountStore
}

var (
	_ Repository = (*SQLRepository)(nil)
)
