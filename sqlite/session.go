package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jvasek/prodcrawl"
)

// URL kinds in the session_urls table. Queued rows carry a position so
// the frontier order survives a restart.
const (
	urlKindQueued    = "queued"
	urlKindVisited   = "visited"
	urlKindProduct   = "product"
	urlKindProcessed = "processed"
)

// Compile-time interface verification.
var _ prodcrawl.SessionStore = (*SessionStore)(nil)

// SessionStore implements prodcrawl.SessionStore using SQLite. A
// session's URL sets and records are rewritten wholesale on every save;
// checkpoint state is small enough that a diff scheme would not pay for
// its complexity.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// CreateSession persists a new session and assigns its ID.
func (s *SessionStore) CreateSession(ctx context.Context, session *prodcrawl.CrawlSession) error {
	session.ID = uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, base_url, domain, max_pages, max_products, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Target.BaseURL, session.Target.Domain,
		session.MaxPages, session.MaxProducts, now, now)
	if err != nil {
		return err
	}

	if err := saveState(ctx, tx, session); err != nil {
		return err
	}

	return tx.Commit()
}

// FindSessionByTarget loads the most recent session for a base URL.
// Returns ENOTFOUND if no session exists.
func (s *SessionStore) FindSessionByTarget(ctx context.Context, baseURL string) (*prodcrawl.CrawlSession, error) {
	var id, storedBase, domain string
	var maxPages, maxProducts int

	err := s.db.QueryRowContext(ctx, `
		SELECT id, base_url, domain, max_pages, max_products
		FROM sessions
		WHERE base_url = ?
		ORDER BY updated_at DESC, rowid DESC
		LIMIT 1
	`, baseURL).Scan(&id, &storedBase, &domain, &maxPages, &maxProducts)

	if err == sql.ErrNoRows {
		return nil, prodcrawl.Errorf(prodcrawl.ENOTFOUND, "no session for %s", baseURL)
	}
	if err != nil {
		return nil, err
	}

	target := &prodcrawl.CrawlTarget{BaseURL: storedBase, Domain: domain}
	session := prodcrawl.NewCrawlSession(target, maxPages, maxProducts)
	session.ID = id

	if err := s.loadState(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveSession checkpoints the session's full state.
func (s *SessionStore) SaveSession(ctx context.Context, session *prodcrawl.CrawlSession) error {
	if session.ID == "" {
		return s.CreateSession(ctx, session)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE sessions SET max_pages = ?, max_products = ?, updated_at = ?
		WHERE id = ?
	`, session.MaxPages, session.MaxProducts, time.Now().UTC().Format(time.RFC3339), session.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return prodcrawl.Errorf(prodcrawl.ENOTFOUND, "session not found")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_urls WHERE session_id = ?", session.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE session_id = ?", session.ID); err != nil {
		return err
	}

	if err := saveState(ctx, tx, session); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSession removes a session and its records.
// Returns ENOTFOUND if the session does not exist.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return prodcrawl.Errorf(prodcrawl.ENOTFOUND, "session not found")
	}

	return nil
}

// saveState writes the session's URL sets and records inside tx.
func saveState(ctx context.Context, tx *sql.Tx, session *prodcrawl.CrawlSession) error {
	urlStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO session_urls (session_id, url, kind, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer urlStmt.Close()

	for i, u := range session.QueuedPages() {
		if _, err := urlStmt.ExecContext(ctx, session.ID, u, urlKindQueued, i); err != nil {
			return err
		}
	}
	for u := range session.VisitedPages {
		if _, err := urlStmt.ExecContext(ctx, session.ID, u, urlKindVisited, 0); err != nil {
			return err
		}
	}
	for u := range session.ProductURLs {
		if _, err := urlStmt.ExecContext(ctx, session.ID, u, urlKindProduct, 0); err != nil {
			return err
		}
	}
	for u := range session.ProcessedURLs {
		if _, err := urlStmt.ExecContext(ctx, session.ID, u, urlKindProcessed, 0); err != nil {
			return err
		}
	}

	recordStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, session_id, name, code, price, original_price, discount, availability, source_url, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer recordStmt.Close()

	for i, r := range session.Records {
		if _, err := recordStmt.ExecContext(ctx, uuid.New().String(), session.ID,
			r.Name, r.Code, r.Price, r.OriginalPrice, r.Discount, r.Availability, r.SourceURL, i); err != nil {
			return err
		}
	}

	return nil
}

// loadState populates the session's URL sets and records from storage.
// Visited URLs are loaded before the queue so queue restoration can
// drop anything already fetched.
func (s *SessionStore) loadState(ctx context.Context, session *prodcrawl.CrawlSession) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, kind FROM session_urls
		WHERE session_id = ? AND kind != ?
	`, session.ID, urlKindQueued)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var url, kind string
		if err := rows.Scan(&url, &kind); err != nil {
			return err
		}
		switch kind {
		case urlKindVisited:
			session.MarkVisited(url)
		case urlKindProduct:
			session.AddProductURL(url)
		case urlKindProcessed:
			session.MarkProcessed(url)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	queueRows, err := s.db.QueryContext(ctx, `
		SELECT url FROM session_urls
		WHERE session_id = ? AND kind = ?
		ORDER BY position
	`, session.ID, urlKindQueued)
	if err != nil {
		return err
	}
	defer queueRows.Close()

	var queue []string
	for queueRows.Next() {
		var url string
		if err := queueRows.Scan(&url); err != nil {
			return err
		}
		queue = append(queue, url)
	}
	if err := queueRows.Err(); err != nil {
		return err
	}
	session.RestoreQueue(queue)

	recordRows, err := s.db.QueryContext(ctx, `
		SELECT name, code, price, original_price, discount, availability, source_url
		FROM records
		WHERE session_id = ?
		ORDER BY position
	`, session.ID)
	if err != nil {
		return err
	}
	defer recordRows.Close()

	for recordRows.Next() {
		var r prodcrawl.ProductRecord
		if err := recordRows.Scan(&r.Name, &r.Code, &r.Price, &r.OriginalPrice,
			&r.Discount, &r.Availability, &r.SourceURL); err != nil {
			return err
		}
		session.AddRecord(&r)
	}
	return recordRows.Err()
}
