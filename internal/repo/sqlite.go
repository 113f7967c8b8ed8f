// internal/repo/sqlite.go
//
// SQLite implementation of the Store interface.
// Timestamps are stored as RFC3339 strings; dates as YYYY-MM-DD keys.
// Unique-constraint violations from the driver are mapped to ErrDuplicate
// so the service layer never inspects driver error codes.

package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened *sql.DB (see openDB in package main).
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

/* ------------------------------ profiles -------------------------------- */

func (s *sqliteStore) GetOrCreateProfile(ctx context.Context, fid int64, username string) (*Profile, error) {
	p, err := s.GetProfile(ctx, fid)
	if err == nil {
		// Keep the display name in sync with the identity provider.
		if username != "" && username != p.Username {
			if _, err := s.db.ExecContext(ctx,
				`UPDATE profiles SET username=? WHERE fid=?`, username, fid); err == nil {
				p.Username = username
			}
		}
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	created := nowRFC3339()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (fid, username, wallet_address, created_at) VALUES (?,?,?,?)`,
		fid, username, "", created)
	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}
	return s.GetProfile(ctx, fid)
}

func (s *sqliteStore) GetProfile(ctx context.Context, fid int64) (*Profile, error) {
	var p Profile
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT fid, username, wallet_address, created_at FROM profiles WHERE fid=?`, fid,
	).Scan(&p.FID, &p.Username, &p.Wallet, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = mustParse(created)
	return &p, nil
}

func (s *sqliteStore) SetWallet(ctx context.Context, fid int64, wallet string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET wallet_address=? WHERE fid=?`, wallet, fid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

/* ---------------------------- daily results ----------------------------- */

func (s *sqliteStore) GetDailyResult(ctx context.Context, fid int64, date string) (*DailyResult, error) {
	var r DailyResult
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT fid, date, attempts, won, score, created_at
		 FROM daily_results WHERE fid=? AND date=?`, fid, date,
	).Scan(&r.FID, &r.Date, &r.Attempts, &r.Won, &r.Score, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt = mustParse(created)
	return &r, nil
}

func (s *sqliteStore) CreateDailyResult(ctx context.Context, r DailyResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_results (fid, date, attempts, won, score, created_at)
		 VALUES (?,?,?,?,?,?)`,
		r.FID, r.Date, r.Attempts, r.Won, r.Score, nowRFC3339())
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

/* ------------------------------- streaks -------------------------------- */

func (s *sqliteStore) GetOrCreateStreak(ctx context.Context, fid int64) (*Streak, error) {
	st := &Streak{FID: fid}
	err := s.db.QueryRowContext(ctx,
		`SELECT current_streak, max_streak, COALESCE(last_played_date,'')
		 FROM streaks WHERE fid=?`, fid,
	).Scan(&st.Current, &st.Max, &st.LastPlayed)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO streaks (fid, current_streak, max_streak, last_played_date)
		 VALUES (?,0,0,NULL)`, fid)
	if err != nil && !isUniqueViolation(err) {
		return nil, err
	}
	return &Streak{FID: fid}, nil
}

func (s *sqliteStore) UpdateStreak(ctx context.Context, st Streak) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE streaks SET current_streak=?, max_streak=?, last_played_date=? WHERE fid=?`,
		st.Current, st.Max, st.LastPlayed, st.FID)
	return err
}

/* ----------------------------- leaderboard ------------------------------ */

func (s *sqliteStore) ListResults(ctx context.Context, start, end string) ([]ResultRow, error) {
	q := `SELECT r.fid, p.username, COALESCE(p.wallet_address,''), r.date,
	             r.attempts, r.won, r.score, r.created_at
	      FROM daily_results r
	      JOIN profiles p ON p.fid = r.fid`
	var args []any
	switch {
	case start != "" && end != "":
		q += ` WHERE r.date BETWEEN ? AND ?`
		args = append(args, start, end)
	case start != "":
		q += ` WHERE r.date >= ?`
		args = append(args, start)
	case end != "":
		q += ` WHERE r.date <= ?`
		args = append(args, end)
	}
	q += ` ORDER BY r.date ASC, r.created_at ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		var created string
		if err := rows.Scan(&r.FID, &r.Username, &r.Wallet, &r.Date,
			&r.Attempts, &r.Won, &r.Score, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = mustParse(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

/* --------------------------- weekly rewards ----------------------------- */

func (s *sqliteStore) CreateWeeklyReward(ctx context.Context, r WeeklyReward) error {
	now := nowRFC3339()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weekly_rewards
		   (id, fid, week_start, rank, amount_usd, status, tx_hash, error, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.FID, r.WeekStart, r.Rank, r.AmountUSD, r.Status, r.TxHash, r.Error, now, now)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *sqliteStore) GetWeeklyReward(ctx context.Context, fid int64, weekStart string) (*WeeklyReward, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, fid, week_start, rank, amount_usd, status,
		        COALESCE(tx_hash,''), COALESCE(error,''), created_at, updated_at
		 FROM weekly_rewards WHERE fid=? AND week_start=?`, fid, weekStart)
	return scanReward(row)
}

func scanReward(row *sql.Row) (*WeeklyReward, error) {
	var r WeeklyReward
	var created, updated string
	err := row.Scan(&r.ID, &r.FID, &r.WeekStart, &r.Rank, &r.AmountUSD,
		&r.Status, &r.TxHash, &r.Error, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt = mustParse(created)
	r.UpdatedAt = mustParse(updated)
	return &r, nil
}

func (s *sqliteStore) UpdateWeeklyRewardStatus(ctx context.Context, id string, status RewardStatus, txHash, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE weekly_rewards SET status=?, tx_hash=?, error=?, updated_at=? WHERE id=?`,
		status, txHash, errMsg, nowRFC3339(), id)
	return err
}

func (s *sqliteStore) ListWeeklyRewards(ctx context.Context, weekStart string) ([]WeeklyReward, error) {
	return s.listRewards(ctx,
		`SELECT id, fid, week_start, rank, amount_usd, status,
		        COALESCE(tx_hash,''), COALESCE(error,''), created_at, updated_at
		 FROM weekly_rewards WHERE week_start=? ORDER BY rank ASC`, weekStart)
}

func (s *sqliteStore) ListRewardsForUser(ctx context.Context, fid int64) ([]WeeklyReward, error) {
	return s.listRewards(ctx,
		`SELECT id, fid, week_start, rank, amount_usd, status,
		        COALESCE(tx_hash,''), COALESCE(error,''), created_at, updated_at
		 FROM weekly_rewards WHERE fid=? ORDER BY week_start DESC`, fid)
}

func (s *sqliteStore) listRewards(ctx context.Context, q string, arg any) ([]WeeklyReward, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeeklyReward
	for rows.Next() {
		var r WeeklyReward
		var created, updated string
		if err := rows.Scan(&r.ID, &r.FID, &r.WeekStart, &r.Rank, &r.AmountUSD,
			&r.Status, &r.TxHash, &r.Error, &created, &updated); err != nil {
			return nil, err
		}
		r.CreatedAt = mustParse(created)
		r.UpdatedAt = mustParse(updated)
		out = append(out, r)
	}
	return out, rows.Err()
}
