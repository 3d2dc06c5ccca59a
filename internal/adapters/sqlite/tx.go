package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"noteboard/internal/domain"
	"noteboard/internal/metrics"
	"noteboard/internal/ports"
)

// querier is what *sql.Conn and *sql.Tx have in common
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// namespaceTx implements ports.NamespaceTx
type namespaceTx struct {
	ctx      context.Context
	q        querier
	owner    domain.Owner
	content  ports.ContentResolver
	readOnly bool

	touched  map[int64]bool
	written  []string
	released []string
}

// Ensure namespaceTx implements NamespaceTx
var _ ports.NamespaceTx = (*namespaceTx)(nil)

func newTx(ctx context.Context, ns *Namespace, q querier) *namespaceTx {
	return &namespaceTx{
		ctx:     ctx,
		q:       q,
		owner:   ns.owner,
		content: ns.store.content,
		touched: make(map[int64]bool),
	}
}

func (t *namespaceTx) Owner() domain.Owner { return t.owner }

func (t *namespaceTx) Durable() bool { return true }

func (t *namespaceTx) exec(op, query string, args ...any) (sql.Result, error) {
	if t.readOnly {
		return nil, fmt.Errorf("%s: write in read-only view", op)
	}
	res, err := t.q.ExecContext(t.ctx, query, args...)
	return res, mapError(op, err)
}

func (t *namespaceTx) touch(parent *int64) {
	t.touched[domain.ParentKey(parent)] = true
}

func nullable(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func pointer(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func stamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now().UTC()
	}
}

type scanner interface {
	Scan(dest ...any) error
}

const folderColumns = `id, owner, name, token, parent_id, idx, created_at`

func scanFolder(row scanner) (*domain.Folder, error) {
	var (
		f       domain.Folder
		owner   string
		parent  sql.NullInt64
		created int64
	)
	if err := row.Scan(&f.ID, &owner, &f.Name, &f.Token, &parent, &f.Index, &created); err != nil {
		return nil, err
	}
	f.Owner = domain.Owner(owner)
	f.ParentID = pointer(parent)
	f.CreatedAt = fromNanos(created)
	return &f, nil
}

const noteColumns = `n.id, n.owner, n.name, n.token, n.parent_id, n.idx, n.created_at,
	n.room_id, n.content_key, n.display, c.note_id, c.content_key, c.background`

const noteFrom = `notes n LEFT JOIN canvases c ON c.note_id = n.id`

func scanNote(row scanner) (*domain.Note, error) {
	var (
		n          domain.Note
		owner      string
		parent     sql.NullInt64
		room       sql.NullInt64
		created    int64
		display    string
		canvasNote sql.NullInt64
		canvasKey  sql.NullString
		background sql.NullString
	)
	err := row.Scan(&n.ID, &owner, &n.Name, &n.Token, &parent, &n.Index, &created,
		&room, &n.ContentKey, &display, &canvasNote, &canvasKey, &background)
	if err != nil {
		return nil, err
	}
	n.Owner = domain.Owner(owner)
	n.ParentID = pointer(parent)
	n.RoomID = pointer(room)
	n.CreatedAt = fromNanos(created)
	n.Display = domain.Display(display)
	if canvasNote.Valid {
		n.Canvas = &domain.Canvas{ContentKey: canvasKey.String, Background: background.String}
	}
	return &n, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{What: what}
	}
	return mapError("lookup "+what, err)
}

func (t *namespaceTx) Folder(id int64) (*domain.Folder, error) {
	row := t.q.QueryRowContext(t.ctx, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, id)
	f, err := scanFolder(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("folder:%d", id))
	}
	return f, nil
}

func (t *namespaceTx) Note(id int64) (*domain.Note, error) {
	row := t.q.QueryRowContext(t.ctx, `SELECT `+noteColumns+` FROM `+noteFrom+` WHERE n.id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("note:%d", id))
	}
	return n, nil
}

func (t *namespaceTx) Room(id int64) (*domain.Room, error) {
	return t.room(`WHERE id = ?`, id, fmt.Sprintf("room:%d", id))
}

func (t *namespaceTx) RoomByName(name string) (*domain.Room, error) {
	return t.room(`WHERE name = ?`, name, "room "+name)
}

func (t *namespaceTx) room(where string, arg any, what string) (*domain.Room, error) {
	var (
		r     domain.Room
		owner string
	)
	err := t.q.QueryRowContext(t.ctx, `SELECT id, owner, name, is_public, is_editable FROM rooms `+where, arg).
		Scan(&r.ID, &owner, &r.Name, &r.IsPublic, &r.IsEditable)
	if err != nil {
		return nil, notFound(err, what)
	}
	r.Owner = domain.Owner(owner)
	return &r, nil
}

func (t *namespaceTx) NoteByRoom(roomID int64) (*domain.Note, error) {
	row := t.q.QueryRowContext(t.ctx, `SELECT `+noteColumns+` FROM `+noteFrom+` WHERE n.room_id = ?`, roomID)
	n, err := scanNote(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("note of room:%d", roomID))
	}
	return n, nil
}

func (t *namespaceTx) ByToken(token string) (domain.Resource, error) {
	row := t.q.QueryRowContext(t.ctx, `
		SELECT 1, `+folderColumns+` FROM folders WHERE token = ?
		UNION ALL
		SELECT 2, id, owner, name, token, parent_id, idx, created_at FROM notes WHERE token = ?
		LIMIT 1
	`, token, token)

	var (
		kind    int
		r       domain.Resource
		owner   string
		parent  sql.NullInt64
		created int64
	)
	err := row.Scan(&kind, &r.ID, &owner, &r.Name, &r.Token, &parent, &r.Index, &created)
	if err != nil {
		return domain.Resource{}, notFound(err, "token")
	}
	r.Kind = domain.KindFolder
	if kind == 2 {
		r.Kind = domain.KindNote
	}
	r.Owner = domain.Owner(owner)
	r.ParentID = pointer(parent)
	r.CreatedAt = fromNanos(created)
	return r, nil
}

func (t *namespaceTx) Children(parent *int64) ([]domain.Resource, error) {
	if parent != nil {
		if _, err := t.Folder(*parent); err != nil {
			return nil, err
		}
	}
	children, err := t.children(parent)
	return children, mapError("list children", err)
}

// children lists both kinds under parent; the root is scoped to the owner.
func (t *namespaceTx) children(parent *int64) ([]domain.Resource, error) {
	where := `parent_id = ?`
	arg := any(nullable(parent))
	if parent == nil {
		where, arg = `parent_id IS NULL AND owner = ?`, string(t.owner)
	}

	rows, err := t.q.QueryContext(t.ctx, `
		SELECT 1, `+folderColumns+` FROM folders WHERE `+where+`
		UNION ALL
		SELECT 2, id, owner, name, token, parent_id, idx, created_at FROM notes WHERE `+where+`
	`, arg, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Resource
	for rows.Next() {
		var (
			kind    int
			r       domain.Resource
			owner   string
			p       sql.NullInt64
			created int64
		)
		if err := rows.Scan(&kind, &r.ID, &owner, &r.Name, &r.Token, &p, &r.Index, &created); err != nil {
			return nil, err
		}
		r.Kind = domain.KindFolder
		if kind == 2 {
			r.Kind = domain.KindNote
		}
		r.Owner = domain.Owner(owner)
		r.ParentID = pointer(p)
		r.CreatedAt = fromNanos(created)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortByIndex(out)
	return out, nil
}

func (t *namespaceTx) NoteNames() ([]string, error) {
	rows, err := t.q.QueryContext(t.ctx, `SELECT name FROM notes WHERE owner = ?`, string(t.owner))
	if err != nil {
		return nil, mapError("list note names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError("list note names", err)
		}
		names = append(names, name)
	}
	return names, mapError("list note names", rows.Err())
}

func (t *namespaceTx) claimToken(token string) error {
	var one int
	err := t.q.QueryRowContext(t.ctx, `
		SELECT 1 FROM folders WHERE token = ?
		UNION ALL
		SELECT 1 FROM notes WHERE token = ?
		LIMIT 1
	`, token, token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return mapError("check token", err)
	}
	return &domain.ValidationError{Field: "token", Message: "token already in use"}
}

func (t *namespaceTx) InsertFolder(f *domain.Folder) error {
	if err := t.claimToken(f.Token); err != nil {
		return err
	}
	stamp(&f.CreatedAt)
	f.Owner = t.owner
	res, err := t.exec("insert folder", `
		INSERT INTO folders (owner, name, token, parent_id, idx, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(t.owner), f.Name, f.Token, nullable(f.ParentID), f.Index, f.CreatedAt.UnixNano())
	if err != nil {
		return err
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return mapError("insert folder", err)
	}
	t.touch(f.ParentID)
	return nil
}

func (t *namespaceTx) InsertRoom(r *domain.Room) error {
	r.Owner = t.owner
	res, err := t.exec("insert room", `
		INSERT INTO rooms (owner, name, is_public, is_editable) VALUES (?, ?, ?, ?)
	`, string(t.owner), r.Name, r.IsPublic, r.IsEditable)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return mapError("insert room", err)
}

func (t *namespaceTx) InsertNote(n *domain.Note) error {
	if err := t.claimToken(n.Token); err != nil {
		return err
	}
	stamp(&n.CreatedAt)
	n.Owner = t.owner
	if n.Display == "" {
		n.Display = domain.DisplayText
	}
	res, err := t.exec("insert note", `
		INSERT INTO notes (owner, name, token, parent_id, idx, created_at, room_id, content_key, display)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(t.owner), n.Name, n.Token, nullable(n.ParentID), n.Index, n.CreatedAt.UnixNano(),
		nullable(n.RoomID), n.ContentKey, string(n.Display))
	if err != nil {
		return err
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return mapError("insert note", err)
	}
	if n.Canvas != nil {
		if _, err := t.exec("insert canvas", `
			INSERT INTO canvases (note_id, content_key, background) VALUES (?, ?, ?)
		`, n.ID, n.Canvas.ContentKey, n.Canvas.Background); err != nil {
			return err
		}
	}
	t.touch(n.ParentID)
	return nil
}

func table(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindFolder:
		return "folders", nil
	case domain.KindNote:
		return "notes", nil
	}
	return "", &domain.ValidationError{Field: "kind", Message: fmt.Sprintf("unsupported kind %s", kind)}
}

// updateNode runs an UPDATE on the row of ref and fails when it is gone.
func (t *namespaceTx) updateNode(op string, ref domain.Ref, set string, args ...any) error {
	tbl, err := table(ref.Kind)
	if err != nil {
		return err
	}
	res, err := t.exec(op, `UPDATE `+tbl+` SET `+set+` WHERE id = ?`, append(args, ref.ID)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.NotFoundError{What: ref.String()}
	}
	return nil
}

func (t *namespaceTx) parentOf(ref domain.Ref) (*int64, error) {
	tbl, err := table(ref.Kind)
	if err != nil {
		return nil, err
	}
	var parent sql.NullInt64
	err = t.q.QueryRowContext(t.ctx, `SELECT parent_id FROM `+tbl+` WHERE id = ?`, ref.ID).Scan(&parent)
	if err != nil {
		return nil, notFound(err, ref.String())
	}
	return pointer(parent), nil
}

func (t *namespaceTx) Rename(ref domain.Ref, name string) error {
	return t.updateNode("rename", ref, `name = ?`, name)
}

func (t *namespaceTx) SetIndex(ref domain.Ref, index int) error {
	parent, err := t.parentOf(ref)
	if err != nil {
		return err
	}
	t.touch(parent)
	return t.updateNode("set index", ref, `idx = ?`, index)
}

func (t *namespaceTx) Move(ref domain.Ref, parent *int64, index int) error {
	old, err := t.parentOf(ref)
	if err != nil {
		return err
	}
	if parent != nil {
		if _, err := t.Folder(*parent); err != nil {
			return err
		}
	}
	t.touch(old)
	t.touch(parent)
	return t.updateNode("move", ref, `parent_id = ?, idx = ?`, nullable(parent), index)
}

func (t *namespaceTx) SaveRoom(r *domain.Room) error {
	res, err := t.exec("save room", `
		UPDATE rooms SET name = ?, is_public = ?, is_editable = ? WHERE id = ?
	`, r.Name, r.IsPublic, r.IsEditable, r.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.NotFoundError{What: fmt.Sprintf("room:%d", r.ID)}
	}
	return nil
}

// SaveNote stores the name, display and canvas background of n. Content
// keys only change through StoreText and StoreCanvas.
func (t *namespaceTx) SaveNote(n *domain.Note) error {
	if err := t.updateNode("save note", n.Ref(), `name = ?, display = ?`, n.Name, string(n.Display)); err != nil {
		return err
	}
	if n.Canvas == nil {
		return nil
	}
	_, err := t.exec("save canvas", `
		INSERT INTO canvases (note_id, background) VALUES (?, ?)
		ON CONFLICT(note_id) DO UPDATE SET background = excluded.background
	`, n.ID, n.Canvas.Background)
	return err
}

func (t *namespaceTx) deleteRow(op, tbl string, id int64, what string) error {
	res, err := t.exec(op, `DELETE FROM `+tbl+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &domain.NotFoundError{What: what}
	}
	return nil
}

func (t *namespaceTx) DeleteFolder(id int64) error {
	parent, err := t.parentOf(domain.Ref{Kind: domain.KindFolder, ID: id})
	if err != nil {
		return err
	}
	t.touch(parent)
	delete(t.touched, id)
	return t.deleteRow("delete folder", "folders", id, fmt.Sprintf("folder:%d", id))
}

func (t *namespaceTx) DeleteNote(id int64) error {
	parent, err := t.parentOf(domain.Ref{Kind: domain.KindNote, ID: id})
	if err != nil {
		return err
	}
	t.touch(parent)
	if _, err := t.exec("delete canvas", `DELETE FROM canvases WHERE note_id = ?`, id); err != nil {
		return err
	}
	return t.deleteRow("delete note", "notes", id, fmt.Sprintf("note:%d", id))
}

func (t *namespaceTx) DeleteRoom(id int64) error {
	return t.deleteRow("delete room", "rooms", id, fmt.Sprintf("room:%d", id))
}

func (t *namespaceTx) get(key string) ([]byte, error) {
	data, err := t.content.Get(t.ctx, key)
	metrics.ObserveContent("get", err)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.StorageError{Op: "get content", Err: err}
	}
	return data, err
}

// put writes data under a fresh key owned by owner and remembers it so a
// rollback can remove it again.
func (t *namespaceTx) put(owner domain.Owner, data []byte) (string, error) {
	if t.readOnly {
		return "", fmt.Errorf("put content: write in read-only view")
	}
	key := domain.NewContentKey(owner)
	err := t.content.Put(t.ctx, key, data)
	metrics.ObserveContent("put", err)
	if err != nil {
		return "", &domain.StorageError{Op: "put content", Err: err}
	}
	t.written = append(t.written, key)
	return key, nil
}

func (t *namespaceTx) LoadText(n *domain.Note) (string, error) {
	if n.ContentKey == "" {
		return "", nil
	}
	data, err := t.get(n.ContentKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (t *namespaceTx) StoreText(n *domain.Note, text string) error {
	key, err := t.put(n.Owner, []byte(text))
	if err != nil {
		return err
	}
	if err := t.updateNode("store text", n.Ref(), `content_key = ?`, key); err != nil {
		return err
	}
	if n.ContentKey != "" {
		t.released = append(t.released, n.ContentKey)
	}
	n.ContentKey = key
	n.Text = text
	return nil
}

func (t *namespaceTx) LoadCanvas(n *domain.Note) ([]byte, error) {
	if n.Canvas == nil || n.Canvas.ContentKey == "" {
		return nil, nil
	}
	return t.get(n.Canvas.ContentKey)
}

func (t *namespaceTx) StoreCanvas(n *domain.Note, data []byte) error {
	key, err := t.put(n.Owner, data)
	if err != nil {
		return err
	}
	if n.Canvas == nil {
		n.Canvas = &domain.Canvas{Background: domain.DefaultCanvasBackground}
	}
	if _, err := t.exec("store canvas", `
		INSERT INTO canvases (note_id, content_key, background) VALUES (?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET content_key = excluded.content_key
	`, n.ID, key, n.Canvas.Background); err != nil {
		return err
	}
	if n.Canvas.ContentKey != "" {
		t.released = append(t.released, n.Canvas.ContentKey)
	}
	n.Canvas.ContentKey = key
	return nil
}

func (t *namespaceTx) ReleaseContent(n *domain.Note) error {
	if n.ContentKey != "" {
		t.released = append(t.released, n.ContentKey)
	}
	if n.Canvas != nil && n.Canvas.ContentKey != "" {
		t.released = append(t.released, n.Canvas.ContentKey)
	}
	return nil
}

func (t *namespaceTx) deleteContent(keys []string, reason string) {
	ctx := context.WithoutCancel(t.ctx)
	for _, key := range keys {
		err := t.content.Delete(ctx, key)
		metrics.ObserveContent("delete", err)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			zerolog.Ctx(t.ctx).Warn().Err(err).Str("key", key).Str("reason", reason).Msg("content cleanup failed")
		}
	}
}

func (t *namespaceTx) discardWritten() {
	t.deleteContent(t.written, "rollback")
	t.written = nil
}

func (t *namespaceTx) releaseAfterCommit() {
	t.deleteContent(t.released, "released")
	t.released = nil
}
