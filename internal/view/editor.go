// Package view holds the todo view's state: the add/edit form fields and the
// edit cursor. It routes every user intent through the store and never keeps
// positions across mutations; rows are recomputed on every call to Rows.
package view

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Mode tells whether a submit adds or updates.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// Row is one record as displayed in the current render pass.
type Row struct {
	Index       int // 0-based position right now
	ID          string
	Title       string
	Description string
	Editing     bool
}

// Editor is the view-local state on top of a Store.
type Editor struct {
	store *store.Store

	title       string
	description string

	// editing is the id under the cursor; "" means no edit in progress.
	editing string
}

func NewEditor(s *store.Store) *Editor {
	return &Editor{store: s}
}

func (e *Editor) Title() string       { return e.title }
func (e *Editor) Description() string { return e.description }

func (e *Editor) SetTitle(v string)       { e.title = v }
func (e *Editor) SetDescription(v string) { e.description = v }

func (e *Editor) Mode() Mode {
	if e.editing != "" {
		return ModeEdit
	}
	return ModeAdd
}

// Editing returns the id of the record being edited.
func (e *Editor) Editing() (string, bool) { return e.editing, e.editing != "" }

// Empty reports whether there is nothing to list.
func (e *Editor) Empty() bool { return e.store.Len() == 0 }

func (e *Editor) Rows() []Row {
	recs := e.store.Records()
	rows := make([]Row, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, Row{
			Index:       i,
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Editing:     r.ID == e.editing,
		})
	}
	return rows
}

// BeginEdit moves the cursor to id and pre-fills the form. An edit already
// in progress is dropped without saving.
func (e *Editor) BeginEdit(id string) error {
	r, ok := e.store.Get(id)
	if !ok {
		return store.ErrNoRecord
	}
	e.editing = r.ID
	e.title = r.Title
	e.description = r.Description
	return nil
}

// Cancel abandons the current edit (if any) and clears the form.
func (e *Editor) Cancel() {
	e.editing = ""
	e.clearFields()
}

// Submit adds a record, or updates the one under the cursor. On
// store.ErrEmptyTitle nothing changes and the fields are kept so the user
// can fix them.
func (e *Editor) Submit(ctx context.Context) (model.Record, error) {
	if e.editing == "" {
		r, err := e.store.Add(ctx, e.title, e.description)
		if err != nil {
			return model.Record{}, err
		}
		e.clearFields()
		return r, nil
	}

	id := e.editing
	err := e.store.Update(ctx, id, e.title, e.description)
	if errors.Is(err, store.ErrNoRecord) {
		// Record vanished under us; nothing left to edit.
		e.Cancel()
		return model.Record{}, err
	}
	if err != nil {
		return model.Record{}, err
	}
	r, _ := e.store.Get(id)
	e.Cancel()
	return r, nil
}

// Delete removes id immediately. Deleting the record under the cursor
// resets the cursor and clears the form; any other delete leaves the edit
// in progress pointing at the same record.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	if id == e.editing {
		e.Cancel()
	}
	return nil
}

func (e *Editor) clearFields() {
	e.title = ""
	e.description = ""
}
