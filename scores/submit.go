/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"context"

	"github.com/Seednode/maboulbox/games/maboul"
)

// FromSubmission converts a finished extraction session into a record.
func FromSubmission(s maboul.Submission) Record {
	rec := Record{
		Name:          s.Player.Name,
		FirstName:     s.Player.FirstName,
		LastName:      s.Player.LastName,
		Game:          GameMaboul,
		Points:        Int(s.Points),
		TotalTime:     s.Elapsed.Milliseconds(),
		FormattedTime: maboul.FormatElapsed(s.Elapsed),
		Date:          s.FinishedAt,
	}

	for _, o := range s.Outcomes {
		if o.Solved {
			rec.ObjectsSucceeded++
		} else {
			rec.ObjectsFailed++
		}
		rec.ObjectsDetails = append(rec.ObjectsDetails, ObjectDetail{
			ID:        o.ChallengeID,
			Name:      o.Name,
			Emoji:     o.Emoji,
			Succeeded: o.Solved,
			Failed:    o.Failed,
			TimeMs:    o.Elapsed.Milliseconds(),
			Reward:    o.Reward,
			Attempts:  o.Attempts,
		})
	}
	return rec
}

// Submitter sends finished extraction sessions to a store.
func Submitter(store Store) maboul.ScoreSubmitter {
	return maboul.SubmitFunc(func(ctx context.Context, s maboul.Submission) error {
		_, err := store.Submit(ctx, FromSubmission(s))
		return err
	})
}
