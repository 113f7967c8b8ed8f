package rewards

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wordcast/internal/pay"
	"wordcast/internal/repo"
)

// Saturday 2026-03-14; the previous week is Mon 2026-03-02 .. Sun 2026-03-08.
var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const prevWeekStart = "2026-03-02"

// fakeLedger is an in-memory Ledger for distributor tests.
type fakeLedger struct {
	rows    []repo.ResultRow
	rewards map[string]*repo.WeeklyReward // keyed fid|weekStart
}

func newFakeLedger(rows ...repo.ResultRow) *fakeLedger {
	return &fakeLedger{rows: rows, rewards: map[string]*repo.WeeklyReward{}}
}

func rkey(fid int64, week string) string { return fmt.Sprintf("%d|%s", fid, week) }

func (f *fakeLedger) ListResults(_ context.Context, start, end string) ([]repo.ResultRow, error) {
	var out []repo.ResultRow
	for _, r := range f.rows {
		if (start == "" || r.Date >= start) && (end == "" || r.Date <= end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) CreateWeeklyReward(_ context.Context, r repo.WeeklyReward) error {
	k := rkey(r.FID, r.WeekStart)
	if _, ok := f.rewards[k]; ok {
		return repo.ErrDuplicate
	}
	cp := r
	f.rewards[k] = &cp
	return nil
}

func (f *fakeLedger) GetWeeklyReward(_ context.Context, fid int64, weekStart string) (*repo.WeeklyReward, error) {
	if r, ok := f.rewards[rkey(fid, weekStart)]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeLedger) UpdateWeeklyRewardStatus(_ context.Context, id string, status repo.RewardStatus, txHash, errMsg string) error {
	for _, r := range f.rewards {
		if r.ID == id {
			r.Status = status
			r.TxHash = txHash
			r.Error = errMsg
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeLedger) ListWeeklyRewards(_ context.Context, weekStart string) ([]repo.WeeklyReward, error) {
	var out []repo.WeeklyReward
	for _, r := range f.rewards {
		if r.WeekStart == weekStart {
			out = append(out, *r)
		}
	}
	return out, nil
}

// fakeTreasury counts transfers and can be made to fail.
type fakeTreasury struct {
	transfers int
	fail      error
	balance   float64
	balErr    error
}

func (f *fakeTreasury) SubmitTransfer(_ context.Context, toAddress string, amountUSD int, memo string) (*pay.TransferResult, error) {
	f.transfers++
	if f.fail != nil {
		return nil, f.fail
	}
	return &pay.TransferResult{TxHash: fmt.Sprintf("0xtx%d", f.transfers)}, nil
}

func (f *fakeTreasury) SponsorBalance(_ context.Context) (float64, error) {
	return f.balance, f.balErr
}

func row(fid int64, name, wallet string, score, attempts int, day int) repo.ResultRow {
	return repo.ResultRow{
		FID:       fid,
		Username:  name,
		Wallet:    wallet,
		Date:      fmt.Sprintf("2026-03-%02d", day),
		Attempts:  attempts,
		Won:       true,
		Score:     score,
		CreatedAt: time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC),
	}
}

const (
	walletA = "0x" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB = "0x" + "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	walletC = "0x" + "cccccccccccccccccccccccccccccccccccccccc"
)

func standings() []repo.ResultRow {
	return []repo.ResultRow{
		row(1, "alice", walletA, 120, 1, 3),
		row(2, "bob", walletB, 100, 2, 4),
		row(3, "carol", walletC, 80, 3, 5),
		row(4, "dave", "", 60, 4, 6), // below the cut
	}
}

func TestDistributePaysTopThree(t *testing.T) {
	db := newFakeLedger(standings()...)
	tr := &fakeTreasury{}
	d := NewDistributor(db, tr)

	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(out))
	}
	wantAmounts := []int{10, 5, 3}
	for i, o := range out {
		if o.Status != "sent" {
			t.Errorf("winner %d status = %q, want sent", i+1, o.Status)
		}
		if o.AmountUSD != wantAmounts[i] {
			t.Errorf("winner %d amount = %d, want %d", i+1, o.AmountUSD, wantAmounts[i])
		}
		if o.TxHash == "" {
			t.Errorf("winner %d missing tx hash", i+1)
		}
	}
	if tr.transfers != 3 {
		t.Errorf("treasury calls = %d, want 3", tr.transfers)
	}

	ledger, _ := db.ListWeeklyRewards(context.Background(), prevWeekStart)
	if len(ledger) != 3 {
		t.Errorf("ledger rows = %d, want 3", len(ledger))
	}
	for _, r := range ledger {
		if r.Status != repo.RewardSent {
			t.Errorf("ledger row fid=%d status = %q, want sent", r.FID, r.Status)
		}
	}
}

func TestDistributeIsIdempotent(t *testing.T) {
	db := newFakeLedger(standings()...)
	tr := &fakeTreasury{}
	d := NewDistributor(db, tr)

	if _, err := d.Distribute(context.Background(), now); err != nil {
		t.Fatalf("first Distribute: %v", err)
	}
	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("second Distribute: %v", err)
	}
	for _, o := range out {
		if o.Status != "already_sent" {
			t.Errorf("fid %d status = %q, want already_sent", o.FID, o.Status)
		}
		if o.TxHash == "" {
			t.Errorf("fid %d already_sent row lost its tx hash", o.FID)
		}
	}
	if tr.transfers != 3 {
		t.Errorf("treasury calls after replay = %d, want still 3", tr.transfers)
	}
	ledger, _ := db.ListWeeklyRewards(context.Background(), prevWeekStart)
	if len(ledger) != 3 {
		t.Errorf("ledger rows after replay = %d, want still 3", len(ledger))
	}
}

func TestDistributeRetriesFailedTransfer(t *testing.T) {
	db := newFakeLedger(standings()[:1]...) // alice only
	tr := &fakeTreasury{fail: errors.New("treasury down")}
	d := NewDistributor(db, tr)

	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if out[0].Status != "failed" || out[0].Error == "" {
		t.Fatalf("outcome = %+v, want failed with error message", out[0])
	}

	// Retry after the treasury recovers: same ledger row, one new transfer.
	tr.fail = nil
	out, err = d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("retry Distribute: %v", err)
	}
	if out[0].Status != "sent" {
		t.Errorf("retry status = %q, want sent", out[0].Status)
	}
	if tr.transfers != 2 {
		t.Errorf("treasury calls = %d, want 2", tr.transfers)
	}
	ledger, _ := db.ListWeeklyRewards(context.Background(), prevWeekStart)
	if len(ledger) != 1 {
		t.Errorf("ledger rows = %d, want exactly 1 across the retry", len(ledger))
	}
}

func TestDistributeSkipsMissingWallet(t *testing.T) {
	rows := []repo.ResultRow{
		row(1, "alice", walletA, 120, 1, 3),
		row(2, "bob", "", 100, 2, 4),
	}
	db := newFakeLedger(rows...)
	tr := &fakeTreasury{}
	d := NewDistributor(db, tr)

	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if out[1].Status != "no_wallet" {
		t.Errorf("bob status = %q, want no_wallet", out[1].Status)
	}
	if tr.transfers != 1 {
		t.Errorf("treasury calls = %d, want 1", tr.transfers)
	}
}

func TestDistributeUsesBestResultPerUser(t *testing.T) {
	rows := []repo.ResultRow{
		row(1, "alice", walletA, 40, 5, 3),
		row(1, "alice", walletA, 120, 1, 4), // her best
		row(2, "bob", walletB, 100, 2, 4),
	}
	db := newFakeLedger(rows...)
	d := NewDistributor(db, &fakeTreasury{})

	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("outcomes = %d, want 2 (one per user)", len(out))
	}
	if out[0].FID != 1 || out[0].AmountUSD != 10 {
		t.Errorf("first outcome = %+v, want alice at $10", out[0])
	}
}

func TestDistributeIgnoresOtherWeeks(t *testing.T) {
	rows := []repo.ResultRow{
		row(1, "alice", walletA, 120, 1, 3),
		row(2, "bob", walletB, 200, 1, 12), // current week, out of range
	}
	db := newFakeLedger(rows...)
	tr := &fakeTreasury{}
	d := NewDistributor(db, tr)

	out, err := d.Distribute(context.Background(), now)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(out) != 1 || out[0].FID != 1 {
		t.Fatalf("outcomes = %+v, want alice only", out)
	}
}

func TestPreviewWeekly(t *testing.T) {
	rows := []repo.ResultRow{
		row(1, "alice", walletA, 120, 1, 3),
		row(2, "bob", "", 100, 2, 4),
	}
	db := newFakeLedger(rows...)
	tr := &fakeTreasury{balance: 42.5}
	d := NewDistributor(db, tr)

	p, err := d.PreviewWeekly(context.Background(), now)
	if err != nil {
		t.Fatalf("PreviewWeekly: %v", err)
	}
	if p.WeekStart != prevWeekStart || p.WeekEnd != "2026-03-08" {
		t.Errorf("week = %s..%s, want %s..2026-03-08", p.WeekStart, p.WeekEnd, prevWeekStart)
	}
	if len(p.Winners) != 1 || p.Winners[0].FID != 1 {
		t.Errorf("winners = %+v, want alice only", p.Winners)
	}
	if len(p.MissingWallets) != 1 || p.MissingWallets[0].FID != 2 {
		t.Errorf("missingWallets = %+v, want bob only", p.MissingWallets)
	}
	if p.AlreadyDistributed {
		t.Error("AlreadyDistributed = true before any payout")
	}
	if p.SponsorBalanceUSD != 42.5 {
		t.Errorf("balance = %v, want 42.5", p.SponsorBalanceUSD)
	}
}

func TestPreviewReportsAlreadyDistributed(t *testing.T) {
	db := newFakeLedger(standings()...)
	tr := &fakeTreasury{}
	d := NewDistributor(db, tr)

	if _, err := d.Distribute(context.Background(), now); err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	p, err := d.PreviewWeekly(context.Background(), now)
	if err != nil {
		t.Fatalf("PreviewWeekly: %v", err)
	}
	if !p.AlreadyDistributed {
		t.Error("AlreadyDistributed = false after a full payout")
	}
}

func TestPreviewSurvivesBalanceOutage(t *testing.T) {
	db := newFakeLedger(standings()...)
	tr := &fakeTreasury{balErr: errors.New("treasury down")}
	d := NewDistributor(db, tr)

	p, err := d.PreviewWeekly(context.Background(), now)
	if err != nil {
		t.Fatalf("PreviewWeekly: %v", err)
	}
	if p.SponsorBalanceUSD != 0 {
		t.Errorf("balance = %v, want 0 when unavailable", p.SponsorBalanceUSD)
	}
}

func TestAmountForDeepTies(t *testing.T) {
	// Three players tied at rank 1 push the next rank number to 4, which
	// still pays the rank-3 prize.
	if got := amountFor(4); got != 3 {
		t.Errorf("amountFor(4) = %d, want 3", got)
	}
	if got := amountFor(1); got != 10 {
		t.Errorf("amountFor(1) = %d, want 10", got)
	}
}
