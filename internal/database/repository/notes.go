package repository

import (
	"context"
	"database/sql"
	"time"
)

// NoteRepo manages the single scratchpad row.
type NoteRepo struct{ db *sql.DB }

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

// Get returns the canonical note, creating an empty one if absent.
func (r *NoteRepo) Get(ctx context.Context) (Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, content, updated_at FROM note ORDER BY id LIMIT 1`)
	var n Note
	err := row.Scan(&n.ID, &n.Content, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		now := time.Now().Format(time.RFC3339)
		res, ierr := r.db.ExecContext(ctx, `INSERT INTO note(content, updated_at) VALUES('', ?)`, now)
		if ierr != nil {
			return Note{}, ierr
		}
		id, ierr := res.LastInsertId()
		if ierr != nil {
			return Note{}, ierr
		}
		return Note{ID: id, Content: "", UpdatedAt: now}, nil
	}
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

// Save overwrites the note content, refreshing updated_at.
func (r *NoteRepo) Save(ctx context.Context, id int64, content string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE note SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().Format(time.RFC3339), id)
	return err
}

// SaveTx is Save within a caller-owned transaction (merge).
func (r *NoteRepo) SaveTx(ctx context.Context, tx *sql.Tx, id int64, content string) error {
	_, err := tx.ExecContext(ctx, `UPDATE note SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().Format(time.RFC3339), id)
	return err
}
