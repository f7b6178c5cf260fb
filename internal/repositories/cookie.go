package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCookieNotFound is returned when a delete matches no stored cookie.
var ErrCookieNotFound = errors.New("cookie not found")

// StoredCookie is a cookie together with the host that set it.
type StoredCookie struct {
	Host   string
	Cookie *http.Cookie
}

// Expired reports whether the cookie has a past expiry at now. Session cookies never expire here.
func (s StoredCookie) Expired(now time.Time) bool {
	return !s.Cookie.Expires.IsZero() && !s.Cookie.Expires.After(now)
}

// CookieRepository persists backend cookies in the cookies table.
type CookieRepository struct {
	db *sql.DB
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// Save inserts or replaces the cookie identified by host, name and path.
func (r *CookieRepository) Save(host string, c *http.Cookie) error {
	query := `
		INSERT INTO cookies (host, name, value, path, domain, expires_at, secure, http_only, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host, name, path) DO UPDATE SET
			value = excluded.value,
			domain = excluded.domain,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			http_only = excluded.http_only,
			updated_at = excluded.updated_at
	`

	var expiresAt any
	if !c.Expires.IsZero() {
		expiresAt = c.Expires.UTC()
	}

	_, err := r.db.Exec(query,
		host,
		c.Name,
		c.Value,
		cookiePath(c),
		c.Domain,
		expiresAt,
		boolToInt(c.Secure),
		boolToInt(c.HttpOnly),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save cookie: %w", err)
	}

	return nil
}

// Delete removes a stored cookie.
func (r *CookieRepository) Delete(host, name, path string) error {
	if path == "" {
		path = "/"
	}

	result, err := r.db.Exec(`DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`, host, name, path)
	if err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}

	if err := affected(result, ErrCookieNotFound); err != nil {
		return fmt.Errorf("%w: %s %s", err, host, name)
	}

	return nil
}

// List returns the unexpired cookies stored for host, ordered by name.
func (r *CookieRepository) List(host string) ([]*http.Cookie, error) {
	stored, err := r.query(`
		SELECT host, name, value, path, domain, expires_at, secure, http_only
		FROM cookies
		WHERE host = ?
		ORDER BY name ASC, path ASC
	`, host)
	if err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, s.Cookie)
	}
	return cookies, nil
}

// All returns every unexpired stored cookie, ordered by host then name.
func (r *CookieRepository) All() ([]StoredCookie, error) {
	return r.query(`
		SELECT host, name, value, path, domain, expires_at, secure, http_only
		FROM cookies
		ORDER BY host ASC, name ASC, path ASC
	`)
}

// PurgeExpired deletes cookies whose expiry is at or before now and returns how many were removed.
func (r *CookieRepository) PurgeExpired(now time.Time) (int, error) {
	rows, err := r.db.Query(`SELECT host, name, path, expires_at FROM cookies WHERE expires_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to query cookies: %w", err)
	}

	type key struct{ host, name, path string }
	var expired []key
	for rows.Next() {
		var (
			k         key
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&k.host, &k.name, &k.path, &expiresAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan cookie: %w", err)
		}
		if expiresAt.Valid && !expiresAt.Time.After(now) {
			expired = append(expired, k)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, k := range expired {
		if _, err := r.db.Exec(`DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`, k.host, k.name, k.path); err != nil {
			return 0, fmt.Errorf("failed to delete expired cookie: %w", err)
		}
	}

	return len(expired), nil
}

// Clear removes every stored cookie.
func (r *CookieRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

// query runs a cookie select and drops rows that have already expired.
func (r *CookieRepository) query(query string, args ...any) ([]StoredCookie, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var cookies []StoredCookie
	for rows.Next() {
		s, err := scanCookie(rows)
		if err != nil {
			return nil, err
		}
		if s.Expired(now) {
			continue
		}
		cookies = append(cookies, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cookies, nil
}

func scanCookie(row scanner) (StoredCookie, error) {
	var (
		host, name, value, path, domain string
		expiresAt                       sql.NullTime
		secure, httpOnly                int
	)

	if err := row.Scan(&host, &name, &value, &path, &domain, &expiresAt, &secure, &httpOnly); err != nil {
		return StoredCookie{}, fmt.Errorf("failed to scan cookie: %w", err)
	}

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   domain,
		Secure:   secure == 1,
		HttpOnly: httpOnly == 1,
	}
	if expiresAt.Valid {
		c.Expires = expiresAt.Time
	}

	return StoredCookie{Host: host, Cookie: c}, nil
}

func cookiePath(c *http.Cookie) string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}
