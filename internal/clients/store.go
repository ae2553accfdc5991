// Package clients provides read access to client records and the
// sync-status write-back. All other columns belong to the admin surface
// and are never written here.
package clients

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"voicesync/internal/db"

	"github.com/google/uuid"
)

// Client is one row of the clients table.
type Client struct {
	ID               string
	Name             string
	SystemPrompt     string
	AgentVoice       string
	UltravoxAgentID  string
	CorpusID         string
	CorpusMaxResults int
	PromptNeedsSync  bool
	PromptLastSynced *time.Time
	PromptSyncError  string
}

// Filter selects clients by equality on at most one field.
// A zero Filter selects all clients.
type Filter struct {
	AgentID string
	Name    string
	ID      string
}

type Store struct {
	conn *sql.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{conn: database.Conn()}
}

const clientColumns = `id, name, system_prompt, agent_voice, ultravox_agent_id,
	corpus_id, corpus_max_results, prompt_needs_sync, prompt_last_synced, prompt_sync_error`

// List returns the clients matching the filter, ordered by name for a
// stable run report.
func (s *Store) List(ctx context.Context, f Filter) ([]Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any

	switch {
	case f.AgentID != "":
		query += ` WHERE ultravox_agent_id = ?`
		args = append(args, f.AgentID)
	case f.Name != "":
		query += ` WHERE name = ?`
		args = append(args, f.Name)
	case f.ID != "":
		query += ` WHERE id = ?`
		args = append(args, f.ID)
	}
	query += ` ORDER BY name`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkSynced records a successful push: the needs-sync flag and the last
// error are cleared, the sync timestamp is set.
func (s *Store) MarkSynced(ctx context.Context, id string, at time.Time) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE clients
		SET prompt_needs_sync = 0,
		    prompt_last_synced = ?,
		    prompt_sync_error = NULL,
		    updated_at = ?
		WHERE id = ?`,
		at.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("marking client %s synced: %w", id, err)
	}
	return nil
}

// Create inserts a client record. Used by tests and seeding; the admin
// surface owns these rows in production.
func (s *Store) Create(ctx context.Context, c Client) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO clients (id, name, system_prompt, agent_voice, ultravox_agent_id,
			corpus_id, corpus_max_results, prompt_needs_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.SystemPrompt,
		nullString(c.AgentVoice), nullString(c.UltravoxAgentID), nullString(c.CorpusID),
		nullInt(c.CorpusMaxResults), c.PromptNeedsSync)
	if err != nil {
		return "", fmt.Errorf("creating client %s: %w", c.Name, err)
	}
	return c.ID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var (
		c          Client
		voice      sql.NullString
		agentID    sql.NullString
		corpusID   sql.NullString
		maxResults sql.NullInt64
		lastSynced sql.NullString
		syncError  sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.SystemPrompt, &voice, &agentID,
		&corpusID, &maxResults, &c.PromptNeedsSync, &lastSynced, &syncError)
	if err != nil {
		return Client{}, fmt.Errorf("scanning client row: %w", err)
	}
	c.AgentVoice = voice.String
	c.UltravoxAgentID = agentID.String
	c.CorpusID = corpusID.String
	c.CorpusMaxResults = int(maxResults.Int64)
	c.PromptSyncError = syncError.String
	if lastSynced.Valid {
		if t, err := time.Parse(time.RFC3339, lastSynced.String); err == nil {
			c.PromptLastSynced = &t
		}
	}
	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
