package storage

import "time"

// Entry is one key in the local key-value table. Value holds JSON.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type EntryListFilter struct {
	Prefix string
	Limit  int
	Offset int
}

// DailyStat is the archived total for one calendar day (YYYY-MM-DD).
type DailyStat struct {
	Day           string
	ScreenSeconds int
	BreaksTaken   int
	Glasses       int
	UpdatedAt     time.Time
}

type DailyStatFilter struct {
	From  string
	To    string
	Limit int
}

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile mirrors the account record kept by the profile store.
type Profile struct {
	UserID    string
	Name      string
	Email     string
	CreatedAt time.Time
	Settings  []byte
}
