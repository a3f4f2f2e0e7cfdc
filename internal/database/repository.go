package database

import (
	"database/sql"
	"net/http"
	"time"
)

// Cookie operations

// SaveCookie inserts or replaces the cookie stored for host
func SaveCookie(host string, c *http.Cookie) error {
	path := c.Path
	if path == "" {
		path = "/"
	}
	var expires sql.NullTime
	if !c.Expires.IsZero() {
		expires = sql.NullTime{Time: c.Expires.UTC(), Valid: true}
	} else if c.MaxAge > 0 {
		expires = sql.NullTime{Time: time.Now().Add(time.Duration(c.MaxAge) * time.Second).UTC(), Valid: true}
	}

	query := `INSERT INTO cookies (host, name, value, path, domain, expires_at, secure, http_only, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(host, name, path) DO UPDATE SET
			  value=excluded.value, domain=excluded.domain, expires_at=excluded.expires_at,
			  secure=excluded.secure, http_only=excluded.http_only, updated_at=excluded.updated_at`
	_, err := DB.Exec(query, host, c.Name, c.Value, path, c.Domain, expires, c.Secure, c.HttpOnly, time.Now().UTC())
	return err
}

// GetCookies returns the unexpired cookies stored for host
func GetCookies(host string) ([]*http.Cookie, error) {
	query := `SELECT name, value, path, domain, expires_at, secure, http_only
			  FROM cookies WHERE host=? AND (expires_at IS NULL OR expires_at > ?)
			  ORDER BY name`
	rows, err := DB.Query(query, host, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cookies := []*http.Cookie{}
	for rows.Next() {
		c := &http.Cookie{}
		var expires sql.NullTime
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &c.Domain, &expires, &c.Secure, &c.HttpOnly); err != nil {
			return nil, err
		}
		if expires.Valid {
			c.Expires = expires.Time
		}
		cookies = append(cookies, c)
	}
	return cookies, rows.Err()
}

func DeleteCookie(host, name, path string) error {
	if path == "" {
		path = "/"
	}
	_, err := DB.Exec(`DELETE FROM cookies WHERE host=? AND name=? AND path=?`, host, name, path)
	return err
}

// DeleteCookies forgets every cookie of host
func DeleteCookies(host string) error {
	_, err := DB.Exec(`DELETE FROM cookies WHERE host=?`, host)
	return err
}

// PruneExpiredCookies removes cookies whose expiry has passed
func PruneExpiredCookies() (int64, error) {
	result, err := DB.Exec(`DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
