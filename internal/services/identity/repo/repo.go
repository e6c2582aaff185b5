// Package repo provides the Postgres persistence facade for identity
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	perr "rolelink/internal/platform/errors"
	"rolelink/internal/platform/store"
	"rolelink/internal/services/identity/domain"
)

// PG implements domain.StoragePort against the sql seam
type PG struct {
	db store.TxRunner
}

// NewPG constructs the Postgres-backed facade
func NewPG(db store.TxRunner) *PG { return &PG{db: db} }

// schema statements run one at a time, pgx's extended protocol rejects
// multi-statement strings
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		discord_id  TEXT PRIMARY KEY,
		idp_id_hash BYTEA NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS users_idp_id_hash_idx ON users (idp_id_hash)`,
	`CREATE TABLE IF NOT EXISTS true_identities (
		discord_id TEXT PRIMARY KEY REFERENCES users (discord_id) ON DELETE CASCADE,
		email      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bans (
		id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		idp_id_hash BYTEA NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		issued_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_on  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS bans_idp_id_hash_idx ON bans (idp_id_hash)`,
	`CREATE TABLE IF NOT EXISTS language_prefs (
		discord_id TEXT PRIMARY KEY,
		language   TEXT NOT NULL
	)`,
}

// EnsureSchema creates the identity tables when missing
func (s *PG) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetUser implements domain.StoragePort
func (s *PG) GetUser(ctx context.Context, discordID string) (*domain.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT discord_id, idp_id_hash, created_at FROM users WHERE discord_id = $1`,
		discordID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var u domain.User
	if err := rows.Scan(&u.DiscordID, &u.IdpIDHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, rows.Err()
}

// RecordNewUser implements domain.StoragePort. The user row and the optional
// true-identity row are written in one transaction.
func (s *PG) RecordNewUser(ctx context.Context, rec domain.NewUserRecord, _ domain.AccessGrant) (*domain.User, error) {
	err := s.db.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := q.Exec(ctx,
			`INSERT INTO users (discord_id, idp_id_hash, created_at) VALUES ($1, $2, $3)`,
			rec.DiscordID, rec.IdpIDHash, rec.Timestamp,
		); err != nil {
			return err
		}
		if rec.KeepIdentity {
			if _, err := q.Exec(ctx,
				`INSERT INTO true_identities (discord_id, email) VALUES ($1, $2)`,
				rec.DiscordID, rec.Email,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.User{
		DiscordID: rec.DiscordID,
		IdpIDHash: rec.IdpIDHash,
		CreatedAt: rec.Timestamp,
	}, nil
}

// GetBans implements domain.StoragePort
func (s *PG) GetBans(ctx context.Context, idpIDHash []byte) ([]domain.Ban, error) {
	rows, err := s.db.Query(ctx,
		`SELECT idp_id_hash, reason, issued_at, expires_on FROM bans WHERE idp_id_hash = $1`,
		idpIDHash,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Ban
	for rows.Next() {
		var b domain.Ban
		if err := rows.Scan(&b.IdpIDHash, &b.Reason, &b.IssuedAt, &b.ExpiresOn); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountUsersWithHash implements domain.StoragePort
func (s *PG) CountUsersWithHash(ctx context.Context, idpIDHash []byte) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE idp_id_hash = $1`, idpIDHash,
	).Scan(&n)
	return n, err
}

// HasIdentity implements domain.StoragePort
func (s *PG) HasIdentity(ctx context.Context, u *domain.User) (bool, error) {
	var one int
	rows, err := s.db.Query(ctx,
		`SELECT 1 FROM true_identities WHERE discord_id = $1`, u.DiscordID,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(&one); err != nil {
		return false, err
	}
	return true, rows.Err()
}

// GetIdentity implements domain.StoragePort; the capability is enforced by
// the service, the repo only performs the read
func (s *PG) GetIdentity(ctx context.Context, u *domain.User, _ domain.AccessGrant) (string, error) {
	var email string
	err := s.db.QueryRow(ctx,
		`SELECT email FROM true_identities WHERE discord_id = $1`, u.DiscordID,
	).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		// an absent row is an expected outcome, not a storage fault
		return "", perr.NotFoundf("no recorded identity for user %s", u.DiscordID)
	}
	return email, err
}

// GetLanguage implements domain.StoragePort
func (s *PG) GetLanguage(ctx context.Context, discordID string) (string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT language FROM language_prefs WHERE discord_id = $1`, discordID,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", rows.Err()
	}
	var lang string
	if err := rows.Scan(&lang); err != nil {
		return "", err
	}
	return lang, rows.Err()
}

// SetLanguage implements domain.StoragePort
func (s *PG) SetLanguage(ctx context.Context, discordID, language string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO language_prefs (discord_id, language) VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET language = EXCLUDED.language`,
		discordID, language,
	)
	return err
}
