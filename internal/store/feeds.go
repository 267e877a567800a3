package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prospector/internal/model"
)

const feedColumns = "id, name, url, reliability, total_mentions, useful_mentions, created_at, updated_at"

var defaultFeeds = []struct {
	name        string
	url         string
	reliability model.Reliability
}{
	{"reddit", "", model.ReliabilityMedium},
	{"producthunt", "https://www.producthunt.com", model.ReliabilityHigh},
	{"web_search", "", model.ReliabilityMedium},
	{"twitter", "https://twitter.com", model.ReliabilityMedium},
	{"hackernews", "https://news.ycombinator.com", model.ReliabilityMedium},
	{"rss", "", model.ReliabilityMedium},
}

func (s *Store) seedFeeds(ctx context.Context) error {
	now := timestamp(time.Now())
	for _, feed := range defaultFeeds {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO feeds (name, url, reliability, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			feed.name,
			nullableString(feed.url),
			feed.reliability,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("seed feed %q: %w", feed.name, err)
		}
	}
	return nil
}

// FeedByName fetches a feed by its unique name.
func (s *Store) FeedByName(ctx context.Context, name string) (*model.Feed, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+feedColumns+` FROM feeds WHERE name = ?`, name)
	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feed %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return feed, nil
}

// ListFeeds returns all feeds ordered by name.
func (s *Store) ListFeeds(ctx context.Context) ([]*model.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+feedColumns+` FROM feeds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []*model.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

// IncrementFeedStats bumps a feed's mention counters. A useful mention is
// one that produced at least one candidate.
func (s *Store) IncrementFeedStats(ctx context.Context, feedID int64, useful bool) error {
	query := `UPDATE feeds SET total_mentions = total_mentions + 1, updated_at = ? WHERE id = ?`
	if useful {
		query = `UPDATE feeds SET total_mentions = total_mentions + 1, useful_mentions = useful_mentions + 1, updated_at = ? WHERE id = ?`
	}
	res, err := s.db.ExecContext(ctx, query, timestamp(time.Now()), feedID)
	if err != nil {
		return fmt.Errorf("update feed stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("feed %d: %w", feedID, ErrNotFound)
	}
	return nil
}

func scanFeed(scanner interface{ Scan(dest ...any) error }) (*model.Feed, error) {
	var (
		id          int64
		name        string
		url         sql.NullString
		reliability string
		total       int64
		useful      int64
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(&id, &name, &url, &reliability, &total, &useful, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	feed := &model.Feed{
		ID:             id,
		Name:           name,
		URL:            url.String,
		Reliability:    model.Reliability(reliability),
		TotalMentions:  total,
		UsefulMentions: useful,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		feed.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		feed.UpdatedAt = updated
	}
	return feed, nil
}
