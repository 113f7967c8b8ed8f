// internal/rewards/rewards.go
//
// Weekly prize distribution over the persisted reward ledger.
//
// The payout guarantee is at-most-once per (user, week): a ledger row is
// created before the treasury call, and a row already in "sent" status is
// never paid again. A "failed" or "pending" row is retried on the next
// call without creating a second row for the same user and week.

package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wordcast/internal/daily"
	"wordcast/internal/pay"
	"wordcast/internal/rank"
	"wordcast/internal/repo"
)

// prizeAmounts maps leaderboard rank to the fixed USD payout.
var prizeAmounts = map[int]int{1: 10, 2: 5, 3: 3}

// winnerCount caps how many leaderboard rows receive prizes.
const winnerCount = 3

// Winner is one prize-eligible leaderboard entry.
type Winner struct {
	FID       int64  `json:"fid"`
	Username  string `json:"username"`
	Wallet    string `json:"wallet,omitempty"`
	Rank      int    `json:"rank"`
	Score     int    `json:"score"`
	AmountUSD int    `json:"amountUsd"`
}

// Preview summarizes last week's prize state without paying anything.
type Preview struct {
	WeekStart          string   `json:"weekStart"`
	WeekEnd            string   `json:"weekEnd"`
	Winners            []Winner `json:"winners"`
	MissingWallets     []Winner `json:"missingWallets"`
	AlreadyDistributed bool     `json:"alreadyDistributed"`
	SponsorBalanceUSD  float64  `json:"sponsorBalanceUsd"`
}

// Outcome is the per-winner result of a Distribute call.
type Outcome struct {
	FID       int64  `json:"fid"`
	Username  string `json:"username"`
	Rank      int    `json:"rank"`
	AmountUSD int    `json:"amountUsd"`
	Status    string `json:"status"` // sent | already_sent | failed | no_wallet
	TxHash    string `json:"txHash,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Ledger is the slice of the persistent store the distributor needs.
// repo.Store implementations satisfy it.
type Ledger interface {
	ListResults(ctx context.Context, start, end string) ([]repo.ResultRow, error)
	CreateWeeklyReward(ctx context.Context, r repo.WeeklyReward) error
	GetWeeklyReward(ctx context.Context, fid int64, weekStart string) (*repo.WeeklyReward, error)
	UpdateWeeklyRewardStatus(ctx context.Context, id string, status repo.RewardStatus, txHash, errMsg string) error
	ListWeeklyRewards(ctx context.Context, weekStart string) ([]repo.WeeklyReward, error)
}

// Distributor orchestrates the ranker, the reward ledger, and the treasury.
type Distributor struct {
	db       Ledger
	treasury pay.Treasury
}

func NewDistributor(db Ledger, treasury pay.Treasury) *Distributor {
	return &Distributor{db: db, treasury: treasury}
}

// topWinners computes last week's prize-eligible entries.
func (d *Distributor) topWinners(ctx context.Context, start, end string) ([]Winner, error) {
	rows, err := d.db.ListResults(ctx, start, end)
	if err != nil {
		return nil, err
	}
	entries := rank.PerUserBest(rows, winnerCount)
	out := make([]Winner, 0, len(entries))
	for _, e := range entries {
		out = append(out, Winner{
			FID:       e.FID,
			Username:  e.Username,
			Wallet:    e.Wallet,
			Rank:      e.Rank,
			Score:     e.Score,
			AmountUSD: amountFor(e.Rank),
		})
	}
	return out, nil
}

// amountFor returns the prize for a rank, falling back to the rank-3 prize
// when competition-ranking ties push a winner's rank number past 3.
func amountFor(r int) int {
	if a, ok := prizeAmounts[r]; ok {
		return a
	}
	return prizeAmounts[winnerCount]
}

// PreviewWeekly reports last week's winners, which of them lack a wallet,
// and whether any prize for that week has already been sent.
func (d *Distributor) PreviewWeekly(ctx context.Context, now time.Time) (*Preview, error) {
	start, end := daily.PrevWeekRange(now)
	winners, err := d.topWinners(ctx, start, end)
	if err != nil {
		return nil, err
	}

	p := &Preview{WeekStart: start, WeekEnd: end}
	for _, w := range winners {
		if w.Wallet == "" {
			p.MissingWallets = append(p.MissingWallets, w)
		} else {
			p.Winners = append(p.Winners, w)
		}
	}

	ledger, err := d.db.ListWeeklyRewards(ctx, start)
	if err != nil {
		return nil, err
	}
	for _, r := range ledger {
		if r.Status == repo.RewardSent {
			p.AlreadyDistributed = true
			break
		}
	}

	// Balance is informational; a treasury outage does not block preview.
	if bal, err := d.treasury.SponsorBalance(ctx); err == nil {
		p.SponsorBalanceUSD = bal
	} else {
		log.Warn().Err(err).Msg("sponsor balance unavailable")
	}
	return p, nil
}

// Distribute pays last week's winners. Safe to call repeatedly: winners
// already in "sent" status report already_sent and trigger no transfer.
func (d *Distributor) Distribute(ctx context.Context, now time.Time) ([]Outcome, error) {
	start, end := daily.PrevWeekRange(now)
	winners, err := d.topWinners(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]Outcome, 0, len(winners))
	for _, w := range winners {
		out = append(out, d.payOne(ctx, start, w))
	}
	return out, nil
}

// payOne settles a single winner against the ledger.
func (d *Distributor) payOne(ctx context.Context, weekStart string, w Winner) Outcome {
	o := Outcome{FID: w.FID, Username: w.Username, Rank: w.Rank, AmountUSD: w.AmountUSD}

	if w.Wallet == "" {
		o.Status = "no_wallet"
		return o
	}

	row, err := d.db.GetWeeklyReward(ctx, w.FID, weekStart)
	switch {
	case err == nil:
		if row.Status == repo.RewardSent {
			o.Status = "already_sent"
			o.TxHash = row.TxHash
			return o
		}
		// failed or pending: retry against the existing row
	case errors.Is(err, repo.ErrNotFound):
		row = &repo.WeeklyReward{
			ID:        uuid.NewString(),
			FID:       w.FID,
			WeekStart: weekStart,
			Rank:      w.Rank,
			AmountUSD: w.AmountUSD,
			Status:    repo.RewardPending,
		}
		if err := d.db.CreateWeeklyReward(ctx, *row); err != nil {
			if !errors.Is(err, repo.ErrDuplicate) {
				o.Status = "failed"
				o.Error = err.Error()
				return o
			}
			// Concurrent creation: re-read and fall through.
			if row, err = d.db.GetWeeklyReward(ctx, w.FID, weekStart); err != nil {
				o.Status = "failed"
				o.Error = err.Error()
				return o
			}
			if row.Status == repo.RewardSent {
				o.Status = "already_sent"
				o.TxHash = row.TxHash
				return o
			}
		}
	default:
		o.Status = "failed"
		o.Error = err.Error()
		return o
	}

	memo := fmt.Sprintf("wordcast weekly prize %s rank %d (%s)", weekStart, w.Rank, row.ID)
	res, err := d.treasury.SubmitTransfer(ctx, w.Wallet, w.AmountUSD, memo)
	if err != nil {
		if uerr := d.db.UpdateWeeklyRewardStatus(ctx, row.ID, repo.RewardFailed, "", err.Error()); uerr != nil {
			log.Error().Err(uerr).Str("reward", row.ID).Msg("record failed payout")
		}
		o.Status = "failed"
		o.Error = err.Error()
		return o
	}

	if err := d.db.UpdateWeeklyRewardStatus(ctx, row.ID, repo.RewardSent, res.TxHash, ""); err != nil {
		// The transfer went out; losing the status write must not
		// cause a second payment, so report sent and log loudly.
		log.Error().Err(err).Str("reward", row.ID).Str("tx", res.TxHash).
			Msg("payout sent but status write failed")
	}
	log.Info().Int64("fid", w.FID).Str("week", weekStart).Int("rank", w.Rank).
		Int("amountUsd", w.AmountUSD).Str("tx", res.TxHash).Msg("weekly prize sent")
	o.Status = "sent"
	o.TxHash = res.TxHash
	return o
}
