// internal/repo/repo.go
//
// Persistent store boundary: profiles, daily results, streaks, and the
// weekly reward ledger. The interface keeps the service layer
// store-agnostic; in particular, unique-constraint races surface as the
// typed ErrDuplicate instead of a driver-specific error code.

package repo

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("repo: not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint. Callers treat it as a benign concurrent duplicate.
	ErrDuplicate = errors.New("repo: duplicate")
)

// Profile is one player identity (fid comes from the mini-app host).
type Profile struct {
	FID       int64     `json:"fid"`
	Username  string    `json:"username"`
	Wallet    string    `json:"wallet,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyResult is a ranked completion: exactly one row per (fid, date).
type DailyResult struct {
	FID       int64     `json:"fid"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Attempts  int       `json:"attempts"`
	Won       bool      `json:"won"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// Streak tracks consecutive ranked play days per player.
type Streak struct {
	FID        int64  `json:"fid"`
	Current    int    `json:"current"`
	Max        int    `json:"max"`
	LastPlayed string `json:"lastPlayed,omitempty"` // YYYY-MM-DD
}

// ResultRow is a daily result joined with its profile, as consumed by the
// leaderboard ranker and reward distributor.
type ResultRow struct {
	FID       int64     `json:"fid"`
	Username  string    `json:"username"`
	Wallet    string    `json:"-"`
	Date      string    `json:"date"`
	Attempts  int       `json:"attempts"`
	Won       bool      `json:"won"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"-"`
}

// RewardStatus is a weekly reward ledger state.
type RewardStatus string

const (
	RewardPending RewardStatus = "pending"
	RewardSent    RewardStatus = "sent"
	RewardFailed  RewardStatus = "failed"
)

// WeeklyReward is one ledger row, unique per (fid, weekStart).
type WeeklyReward struct {
	ID        string       `json:"id"`
	FID       int64        `json:"fid"`
	WeekStart string       `json:"weekStart"` // Monday, YYYY-MM-DD
	Rank      int          `json:"rank"`
	AmountUSD int          `json:"amountUsd"`
	Status    RewardStatus `json:"status"`
	TxHash    string       `json:"txHash,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Store is the durable persistence collaborator.
type Store interface {
	GetOrCreateProfile(ctx context.Context, fid int64, username string) (*Profile, error)
	GetProfile(ctx context.Context, fid int64) (*Profile, error)
	SetWallet(ctx context.Context, fid int64, wallet string) error

	// GetDailyResult returns ErrNotFound when the user has no ranked
	// result for the date.
	GetDailyResult(ctx context.Context, fid int64, date string) (*DailyResult, error)

	// CreateDailyResult returns ErrDuplicate if a row already exists for
	// (fid, date); callers absorb that as a concurrent duplicate.
	CreateDailyResult(ctx context.Context, r DailyResult) error

	GetOrCreateStreak(ctx context.Context, fid int64) (*Streak, error)
	UpdateStreak(ctx context.Context, s Streak) error

	// ListResults returns profile-joined results with date in
	// [start, end]; empty bounds are unbounded on that side.
	ListResults(ctx context.Context, start, end string) ([]ResultRow, error)

	// CreateWeeklyReward returns ErrDuplicate if a ledger row already
	// exists for (fid, weekStart).
	CreateWeeklyReward(ctx context.Context, r WeeklyReward) error
	GetWeeklyReward(ctx context.Context, fid int64, weekStart string) (*WeeklyReward, error)
	UpdateWeeklyRewardStatus(ctx context.Context, id string, status RewardStatus, txHash, errMsg string) error
	ListWeeklyRewards(ctx context.Context, weekStart string) ([]WeeklyReward, error)
	ListRewardsForUser(ctx context.Context, fid int64) ([]WeeklyReward, error)
}
