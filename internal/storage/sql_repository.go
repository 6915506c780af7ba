package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const sqlTimeLayout = time.RFC3339Nano

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// SQLRepository implements Repository on database/sql. Queries are written
// with ? placeholders and rebound for Postgres.
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := r.db.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, r.translate(err)
	}
	return res, nil
}

func (r *SQLRepository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.rebind(query), args...)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.rebind(query), args...)
}

func (r *SQLRepository) rebind(query string) string {
	if r.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *SQLRepository) translate(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (r *SQLRepository) GetEntry(ctx context.Context, key string) (Entry, error) {
	row := r.queryRow(ctx, `SELECT key, value, updated_at FROM kv_entries WHERE key = ?`, key)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (r *SQLRepository) PutEntry(ctx context.Context, in Entry) error {
	if strings.TrimSpace(in.Key) == "" {
		return errors.New("storage: entry key is required")
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = time.Now().UTC()
	}
	_, err := r.exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		in.Key, string(in.Value), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) DeleteEntry(ctx context.Context, key string) error {
	res, err := r.exec(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListEntries(ctx context.Context, filter EntryListFilter) ([]Entry, error) {
	query := `SELECT key, value, updated_at FROM kv_entries`
	args := make([]any, 0, 3)
	if filter.Prefix != "" {
		query += ` WHERE key LIKE ?`
		args = append(args, escapeLike(filter.Prefix)+"%")
		query += ` ESCAPE '\'`
	}
	query += ` ORDER BY key ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *SQLRepository) UpsertDailyStat(ctx context.Context, in DailyStat) error {
	if _, err := time.Parse("2006-01-02", in.Day); err != nil {
		return fmt.Errorf("storage: invalid day %q: %w", in.Day, err)
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = time.Now().UTC()
	}
	_, err := r.exec(ctx, `
		INSERT INTO daily_stats (day, screen_seconds, breaks_taken, glasses, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET
			screen_seconds = excluded.screen_seconds,
			breaks_taken = excluded.breaks_taken,
			glasses = excluded.glasses,
			updated_at = excluded.updated_at`,
		in.Day, in.ScreenSeconds, in.BreaksTaken, in.Glasses, mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetDailyStat(ctx context.Context, day string) (DailyStat, error) {
	row := r.queryRow(ctx, `
		SELECT day, screen_seconds, breaks_taken, glasses, updated_at
		FROM daily_stats WHERE day = ?`, day)
	stat, err := scanDailyStat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DailyStat{}, ErrNotFound
		}
		return DailyStat{}, err
	}
	return stat, nil
}

// ListDailyStats returns the newest days first.
func (r *SQLRepository) ListDailyStats(ctx context.Context, filter DailyStatFilter) ([]DailyStat, error) {
	query := `SELECT day, screen_seconds, breaks_taken, glasses, updated_at FROM daily_stats`
	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.From != "" {
		where = append(where, "day >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "day <= ?")
		args = append(args, filter.To)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY day DESC`
	query += applyPagination(&args, filter.Limit, 0)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DailyStat, 0)
	for rows.Next() {
		stat, scanErr := scanDailyStat(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func (r *SQLRepository) CreateUser(ctx context.Context, in User) error {
	_, err := r.exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, strings.ToLower(strings.TrimSpace(in.Email)), in.Name, in.PasswordHash, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLRepository) GetUser(ctx context.Context, id string) (User, error) {
	row := r.queryRow(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`, id)
	return r.userFromRow(row)
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := r.queryRow(ctx, `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	return r.userFromRow(row)
}

func (r *SQLRepository) userFromRow(row *sql.Row) (User, error) {
	var out User
	var created string
	if err := row.Scan(&out.ID, &out.Email, &out.Name, &out.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return User{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func (r *SQLRepository) PutProfile(ctx context.Context, in Profile) error {
	settings := string(in.Settings)
	if strings.TrimSpace(settings) == "" {
		settings = "{}"
	}
	_, err := r.exec(ctx, `
		INSERT INTO profiles (user_id, name, email, created_at, settings)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			settings = excluded.settings`,
		in.UserID, in.Name, in.Email, mustTime(in.CreatedAt), settings,
	)
	return err
}

func (r *SQLRepository) GetProfile(ctx context.Context, userID string) (Profile, error) {
	row := r.queryRow(ctx, `
		SELECT user_id, name, email, created_at, settings
		FROM profiles WHERE user_id = ?`, userID)
	var out Profile
	var created string
	if err := row.Scan(&out.UserID, &out.Name, &out.Email, &created, &out.Settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Profile{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqlTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqlTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var out Entry
	var updated string
	if err := s.Scan(&out.Key, &out.Value, &updated); err != nil {
		return Entry{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Entry{}, err
	}
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanDailyStat(s scanner) (DailyStat, error) {
	var out DailyStat
	var updated string
	if err := s.Scan(&out.Day, &out.ScreenSeconds, &out.BreaksTaken, &out.Glasses, &updated); err != nil {
		return DailyStat{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return DailyStat{}, err
	}
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
