package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lectorio/lectorio/pkg/database"
	"github.com/lectorio/lectorio/pkg/logger"
	"github.com/lectorio/lectorio/pkg/stats"
	"github.com/lectorio/lectorio/pkg/utils"
)

// Vote target kinds.
const (
	TargetSeries  = "series"
	TargetChapter = "chapter"
)

// VoteOutcome describes what a CastVote call did to the ledger.
type VoteOutcome int

const (
	VoteUnchanged VoteOutcome = iota
	VoteCreated
	VoteChanged
	VoteRemoved
	VoteNothingToRemove
)

// Status maps the outcome onto the boundary response status field.
func (o VoteOutcome) Status() string {
	switch o {
	case VoteUnchanged, VoteNothingToRemove:
		return "info"
	default:
		return "success"
	}
}

func (o VoteOutcome) Message() string {
	switch o {
	case VoteCreated:
		return "Vote recorded"
	case VoteChanged:
		return "Vote changed"
	case VoteRemoved:
		return "Vote removed"
	case VoteUnchanged:
		return "Vote unchanged"
	case VoteNothingToRemove:
		return "No vote to remove"
	default:
		return "Vote processed"
	}
}

// VoteLedger owns the one-vote-per-user-per-target invariant and the
// likes/dislikes counters on series and chapter rows. Counters are only
// ever adjusted in the same transaction that mutates the vote row, so they
// always equal the count of persisted votes with the matching sign.
type VoteLedger struct {
	log *logger.Logger
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{log: logger.WithContext("component", "vote_ledger")}
}

// CastVote applies the caller's desired vote value (-1, 0, +1) for a target.
// Casting 0 withdraws an existing vote. The vote-row mutation and the
// counter deltas commit atomically; on write conflict the whole transaction
// is retried up to the database package's bounded budget.
func (l *VoteLedger) CastVote(ctx context.Context, voterID, targetKind, targetID, seriesID string, desired int) (VoteOutcome, error) {
	if voterID == "" {
		return VoteUnchanged, validationErrorf("voter id is required")
	}
	if targetKind != TargetSeries && targetKind != TargetChapter {
		return VoteUnchanged, validationErrorf("target_kind must be %q or %q", TargetSeries, TargetChapter)
	}
	if targetID == "" {
		return VoteUnchanged, validationErrorf("target_id is required")
	}
	if desired != -1 && desired != 0 && desired != 1 {
		return VoteUnchanged, validationErrorf("desired_value must be -1, 0 or 1")
	}
	if targetKind == TargetChapter && seriesID == "" {
		return VoteUnchanged, validationErrorf("series_id is required for chapter votes")
	}

	var outcome VoteOutcome
	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		// Reset per attempt: the transaction may be retried wholesale.
		outcome = VoteUnchanged

		var voteID string
		var current int
		err := tx.QueryRowContext(ctx,
			`SELECT id, value FROM votes WHERE user_id = ? AND target_kind = ? AND target_id = ?`,
			voterID, targetKind, targetID,
		).Scan(&voteID, &current)

		var likesDelta, dislikesDelta int

		switch {
		case err == sql.ErrNoRows:
			if desired == 0 {
				outcome = VoteNothingToRemove
				return nil
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO votes (id, user_id, target_kind, target_id, value, recorded_at)
				 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
				utils.NewID(), voterID, targetKind, targetID, desired,
			); err != nil {
				return fmt.Errorf("insert vote: %w", err)
			}
			if desired == 1 {
				likesDelta = 1
			} else {
				dislikesDelta = 1
			}
			outcome = VoteCreated

		case err != nil:
			return fmt.Errorf("query existing vote: %w", err)

		default:
			if current == desired {
				outcome = VoteUnchanged
				return nil
			}

			if current == 1 {
				likesDelta--
			} else {
				dislikesDelta--
			}
			if desired == 1 {
				likesDelta++
			} else if desired == -1 {
				dislikesDelta++
			}

			if desired == 0 {
				if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, voteID); err != nil {
					return fmt.Errorf("delete vote: %w", err)
				}
				outcome = VoteRemoved
			} else {
				if _, err := tx.ExecContext(ctx,
					`UPDATE votes SET value = ?, recorded_at = CURRENT_TIMESTAMP WHERE id = ?`,
					desired, voteID,
				); err != nil {
					return fmt.Errorf("update vote: %w", err)
				}
				outcome = VoteChanged
			}
		}

		return l.applyCounterDeltas(ctx, tx, targetKind, targetID, seriesID, likesDelta, dislikesDelta)
	})
	if err != nil {
		return VoteUnchanged, err
	}
	stats.IncrementVotes()
	return outcome, nil
}

// applyCounterDeltas adjusts the target row's likes/dislikes counters. A
// missing target row is an inconsistency in the surrounding content data,
// not a ledger fault: the vote mutation still commits and the miss is only
// logged.
func (l *VoteLedger) applyCounterDeltas(ctx context.Context, tx *sql.Tx, targetKind, targetID, seriesID string, likesDelta, dislikesDelta int) error {
	if likesDelta == 0 && dislikesDelta == 0 {
		return nil
	}

	var res sql.Result
	var err error
	if targetKind == TargetSeries {
		res, err = tx.ExecContext(ctx,
			`UPDATE series SET likes = likes + ?, dislikes = dislikes + ? WHERE id = ?`,
			likesDelta, dislikesDelta, targetID,
		)
	} else {
		res, err = tx.ExecContext(ctx,
			`UPDATE chapters SET likes = likes + ?, dislikes = dislikes + ? WHERE id = ? AND series_id = ?`,
			likesDelta, dislikesDelta, targetID, seriesID,
		)
	}
	if err != nil {
		return fmt.Errorf("update %s counters: %w", targetKind, err)
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		l.log.Warn("vote_target_missing", "target_kind", targetKind, "target_id", targetID)
	}
	return nil
}
