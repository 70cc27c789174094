/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"context"
	"errors"
	"time"
)

// Store persists records. Submit normalizes before saving and returns
// the record as stored.
type Store interface {
	Submit(ctx context.Context, r Record) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	Close() error
}

// Fallback writes every record to a local store first, then to the
// primary. Reads prefer the primary and fall back to the local copy.
type Fallback struct {
	Primary Store
	Local   Store
	Logf    func(format string, args ...any)
	Now     func() time.Time
}

func (f *Fallback) logf(format string, args ...any) {
	if f.Logf != nil {
		f.Logf(format, args...)
	}
}

func (f *Fallback) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Fallback) Submit(ctx context.Context, r Record) (Record, error) {
	rec, err := Normalize(r, f.now())
	if err != nil {
		return Record{}, err
	}

	_, lerr := f.Local.Submit(ctx, rec)
	if lerr != nil {
		f.logf("SCORES: Local backup failed for %s: %v", rec.Name, lerr)
	}

	if _, perr := f.Primary.Submit(ctx, rec); perr != nil {
		if lerr != nil {
			return Record{}, errors.Join(perr, lerr)
		}
		f.logf("SCORES: Primary store unavailable, kept %s locally: %v", rec.Name, perr)
	}
	return rec, nil
}

func (f *Fallback) List(ctx context.Context, filter Filter) ([]Record, error) {
	recs, err := f.Primary.List(ctx, filter)
	if err == nil {
		return recs, nil
	}
	f.logf("SCORES: Primary store unavailable, reading local copy: %v", err)
	return f.Local.List(ctx, filter)
}

func (f *Fallback) Close() error {
	return errors.Join(f.Primary.Close(), f.Local.Close())
}
