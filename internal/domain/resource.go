package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Owner identifies the actor a namespace belongs to. The empty owner is the
// transient (anonymous) actor.
type Owner string

// IsTransient reports whether the owner has no durable identity.
func (o Owner) IsTransient() bool {
	return o == ""
}

// Kind distinguishes the two resources that live in the tree.
type Kind int

const (
	KindAny Kind = iota
	KindFolder
	KindNote
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindNote:
		return "note"
	default:
		return "any"
	}
}

// ParseKind parses "folder" or "note" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "folder", "f":
		return KindFolder, nil
	case "note", "n":
		return KindNote, nil
	case "", "any":
		return KindAny, nil
	}
	return KindAny, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", s)}
}

// Ref addresses one resource inside a namespace. Ids are unique per kind.
type Ref struct {
	Kind Kind
	ID   int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Node holds the attributes folders and notes share.
type Node struct {
	ID        int64
	Owner     Owner
	Name      string
	Token     string
	ParentID  *int64
	Index     int
	CreatedAt time.Time
}

// IsRoot reports whether the node sits directly under the root.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// Folder is a container for folders and notes.
type Folder struct {
	Node
}

// Ref returns the folder's reference
func (f *Folder) Ref() Ref {
	return Ref{Kind: KindFolder, ID: f.ID}
}

// Display selects how a note is presented when its room is opened.
type Display string

const (
	DisplayText   Display = "text"
	DisplayCanvas Display = "canvas"
)

// ParseDisplay validates a display value
func ParseDisplay(s string) (Display, error) {
	switch Display(strings.ToLower(strings.TrimSpace(s))) {
	case DisplayText:
		return DisplayText, nil
	case DisplayCanvas:
		return DisplayCanvas, nil
	}
	return "", &ValidationError{Field: "display", Message: fmt.Sprintf("must be text or canvas, got %q", s)}
}

// Canvas is the optional drawing attached to a note.
type Canvas struct {
	ContentKey string
	Background string
}

// Note is a leaf of the tree. Its text lives behind ContentKey in the durable
// namespace and inline in Text in the transient one.
type Note struct {
	Node
	RoomID     *int64
	ContentKey string
	Text       string
	Canvas     *Canvas
	Display    Display
}

// Ref returns the note's reference
func (n *Note) Ref() Ref {
	return Ref{Kind: KindNote, ID: n.ID}
}

// Room is the shareable surface bound to exactly one note. Its name doubles
// as a public path segment.
type Room struct {
	ID         int64
	Owner      Owner
	Name       string
	IsPublic   bool
	IsEditable bool
}

// SetEditable makes the room editable; editable rooms are always public.
func (r *Room) SetEditable(v bool) {
	r.IsEditable = v
	if v {
		r.IsPublic = true
	}
}

// SetPublic changes visibility; private rooms are never editable.
func (r *Room) SetPublic(v bool) {
	r.IsPublic = v
	if !v {
		r.IsEditable = false
	}
}

// Resource is a folder or a note seen as an entry in a sibling list.
type Resource struct {
	Kind Kind
	Node
}

// Ref returns the resource's reference
func (r Resource) Ref() Ref {
	return Ref{Kind: r.Kind, ID: r.ID}
}

// Locator is how callers point at a resource: by token, by id, or both.
// Transient namespaces require the token; durable namespaces check ownership.
type Locator struct {
	Kind  Kind
	ID    int64
	ByID  bool
	Token string
}

// ByToken builds a locator that addresses a resource by its token only.
func ByToken(token string) Locator {
	return Locator{Token: token}
}

// ByID builds a locator for an id with an optional proving token.
func ByID(kind Kind, id int64, token string) Locator {
	return Locator{Kind: kind, ID: id, ByID: true, Token: token}
}

// IsZero reports whether the locator addresses nothing (the root).
func (l Locator) IsZero() bool {
	return !l.ByID && l.Token == ""
}

func (l Locator) String() string {
	switch {
	case l.ByID && l.Token != "":
		return fmt.Sprintf("%s:%d@%s", l.Kind, l.ID, l.Token)
	case l.ByID:
		return fmt.Sprintf("%s:%d", l.Kind, l.ID)
	default:
		return l.Token
	}
}

// ParseLocator accepts "<kind>:<id>[@token]", "<id>[@token]" or a bare token.
// The empty string and "/" address the root and yield the zero locator.
func ParseLocator(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return Locator{}, nil
	}

	body, token, _ := strings.Cut(s, "@")
	kind := KindAny
	idPart := body
	if k, rest, ok := strings.Cut(body, ":"); ok {
		parsed, err := ParseKind(k)
		if err != nil {
			return Locator{}, err
		}
		kind, idPart = parsed, rest
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		if kind != KindAny || token != "" {
			return Locator{}, &ValidationError{Field: "locator", Message: fmt.Sprintf("invalid id in %q", s)}
		}
		return ByToken(s), nil
	}
	if id < 0 {
		return Locator{}, &ValidationError{Field: "locator", Message: "id must not be negative"}
	}
	return ByID(kind, id, token), nil
}
