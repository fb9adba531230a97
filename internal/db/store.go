package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
)

const itemColumns = `id, title, url, type, source, channel, status, date_added,
	tags_json, priority, notes, md_file_url, favorite`

// Store is a content.Backend kept in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore returns a Store using db, which must have been opened with Init.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Query lists active items matching f, newest first.
func (s *Store) Query(ctx context.Context, f content.Filter) ([]content.Item, error) {
	f = f.Normalize()

	var (
		where = []string{"archived_at IS NULL"}
		args  []any
	)
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}
	if f.Search != "" {
		where = append(where, "instr(lower(title), lower(?)) > 0")
		args = append(args, f.Search)
	}

	query := "SELECT " + itemColumns + " FROM items WHERE " + strings.Join(where, " AND ") +
		" ORDER BY date_added DESC, created_at DESC LIMIT 100"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// Create inserts a new item with a random UUID.
func (s *Store) Create(ctx context.Context, in content.NewItem) (*content.Item, error) {
	now := s.now()
	item := &content.Item{
		ID:        uuid.NewString(),
		Title:     in.Title,
		URL:       in.URL,
		Type:      in.Type,
		Source:    in.Source,
		Status:    in.Status,
		Notes:     in.Notes,
		DateAdded: content.FormatDate(now),
		Tags:      []string{},
	}
	if item.Status == "" {
		item.Status = content.StatusInbox
	}
	item.NotionURL = item.ID

	query := `
		INSERT INTO items (
			id, title, url, type, source, status, date_added, notes,
			favorite, created_at, updated_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, NULL)
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.Title, item.URL, toNullString(item.Type), toNullString(item.Source),
		item.Status, item.DateAdded, toNullString(item.Notes), now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return item, nil
}

// Update applies c to an active item and returns the result.
func (s *Store) Update(ctx context.Context, id string, c content.Changes) (*content.Item, error) {
	var (
		sets = []string{"updated_at = ?"}
		args = []any{s.now().Unix()}
	)
	if c.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *c.Status)
	}
	if c.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, boolToInt(*c.Favorite))
	}
	args = append(args, id)

	query := "UPDATE items SET " + strings.Join(sets, ", ") + " WHERE id = ? AND archived_at IS NULL"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := requireRow(result, id); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Archive soft-deletes an item by setting archived_at.
func (s *Store) Archive(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE items SET archived_at = ? WHERE id = ? AND archived_at IS NULL",
		s.now().Unix(), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRow(result, id)
}

// FetchPage returns preview metadata for an item.
func (s *Store) FetchPage(ctx context.Context, id string) (*content.Page, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	title := item.Title
	if title == "" {
		title = content.Untitled
	}
	return &content.Page{Title: title}, nil
}

// FetchBlockChildren synthesizes preview blocks for an item: a bookmark
// for its URL and a paragraph for its notes.
func (s *Store) FetchBlockChildren(ctx context.Context, id string) ([]blocks.Block, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	var out []blocks.Block
	if item.URL != "" {
		out = append(out, blocks.Block{Kind: blocks.KindBookmark, Type: string(blocks.KindBookmark), URL: item.URL})
	}
	if item.Notes != "" {
		out = append(out, blocks.Text(blocks.KindParagraph, blocks.Plain(item.Notes)))
	}
	return out, nil
}

func (s *Store) get(ctx context.Context, id string) (*content.Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ? AND archived_at IS NULL", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanItem scans a single row selected with itemColumns.
func scanItem(row scanner) (*content.Item, error) {
	var (
		item     content.Item
		typ      sql.NullString
		source   sql.NullString
		channel  sql.NullString
		tagsJSON sql.NullString
		priority sql.NullString
		notes    sql.NullString
		mdFile   sql.NullString
		favorite int
	)

	err := row.Scan(
		&item.ID, &item.Title, &item.URL, &typ, &source, &channel, &item.Status, &item.DateAdded,
		&tagsJSON, &priority, &notes, &mdFile, &favorite,
	)
	if err != nil {
		return nil, err
	}

	item.Type = typ.String
	item.Source = source.String
	item.Channel = channel.String
	item.Priority = priority.String
	item.Notes = notes.String
	item.MDFileURL = mdFile.String
	item.Favorite = favorite != 0
	item.NotionURL = item.ID

	item.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &item.Tags); err != nil {
			return nil, err
		}
	}

	return &item, nil
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
