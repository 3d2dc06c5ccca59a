package commands

import (
	"errors"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

func fetch(tx ports.NamespaceTx, kind domain.Kind, id int64) (domain.Resource, error) {
	switch kind {
	case domain.KindFolder:
		f, err := tx.Folder(id)
		if err != nil {
			return domain.Resource{}, err
		}
		return domain.Resource{Kind: domain.KindFolder, Node: f.Node}, nil
	case domain.KindNote:
		n, err := tx.Note(id)
		if err != nil {
			return domain.Resource{}, err
		}
		return domain.Resource{Kind: domain.KindNote, Node: n.Node}, nil
	}
	return domain.Resource{}, &domain.NotFoundError{What: fmt.Sprintf("%s:%d", kind, id)}
}

// candidates returns every resource the locator could mean, before any
// ownership or token check.
func candidates(tx ports.NamespaceTx, loc domain.Locator) ([]domain.Resource, error) {
	if !loc.ByID {
		r, err := tx.ByToken(loc.Token)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.Resource{r}, nil
	}

	kinds := []domain.Kind{domain.KindFolder, domain.KindNote}
	if loc.Kind != domain.KindAny {
		kinds = []domain.Kind{loc.Kind}
	}

	var found []domain.Resource
	for _, kind := range kinds {
		r, err := fetch(tx, kind, loc.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = append(found, r)
	}
	return found, nil
}

// locate resolves loc to a resource the actor owns. A transient actor
// proves access with the token; a durable actor must be the owner, and a
// token given alongside an id must match too.
func locate(tx ports.NamespaceTx, loc domain.Locator) (domain.Resource, error) {
	if loc.IsZero() {
		return domain.Resource{}, &application.ValidationError{Field: "resource", Message: "resource is required"}
	}

	found, err := candidates(tx, loc)
	if err != nil {
		return domain.Resource{}, err
	}
	if tx.Durable() {
		owned := found[:0]
		for _, r := range found {
			if r.Owner == tx.Owner() {
				owned = append(owned, r)
			}
		}
		found = owned
	}
	if len(found) == 0 {
		return domain.Resource{}, &domain.NotFoundError{What: loc.String()}
	}

	if loc.ByID && loc.Token != "" {
		for _, r := range found {
			if domain.TokenMatches(r.Token, loc.Token) {
				return r, nil
			}
		}
		return domain.Resource{}, &application.PermissionError{Resource: loc.String(), Reason: "token does not match"}
	}
	if loc.ByID && !tx.Durable() {
		return domain.Resource{}, &application.PermissionError{Resource: loc.String(), Reason: "token required"}
	}
	if len(found) > 1 {
		return domain.Resource{}, &application.ValidationError{
			Field:   "resource",
			Message: fmt.Sprintf("id %d names both a folder and a note; use folder:%d or note:%d", loc.ID, loc.ID, loc.ID),
		}
	}
	return found[0], nil
}

// locateParent resolves an optional parent folder; the zero locator is the root.
func locateParent(tx ports.NamespaceTx, loc domain.Locator) (*int64, error) {
	if loc.IsZero() {
		return nil, nil
	}
	if loc.ByID && loc.Kind == domain.KindAny {
		loc.Kind = domain.KindFolder
	}
	r, err := locate(tx, loc)
	if err != nil {
		return nil, err
	}
	if r.Kind != domain.KindFolder {
		return nil, &application.ValidationError{Field: "parent", Message: fmt.Sprintf("%s is not a folder", r.Ref())}
	}
	id := r.ID
	return &id, nil
}

// locateNote resolves loc to a note owned by the actor.
func locateNote(tx ports.NamespaceTx, loc domain.Locator) (*domain.Note, error) {
	if loc.ByID && loc.Kind == domain.KindAny {
		loc.Kind = domain.KindNote
	}
	r, err := locate(tx, loc)
	if err != nil {
		return nil, err
	}
	if r.Kind != domain.KindNote {
		return nil, &application.ValidationError{Field: "note", Message: fmt.Sprintf("%s is not a note", r.Ref())}
	}
	return tx.Note(r.ID)
}

// requireWriter rejects mutations from a durable actor without identity.
func requireWriter(tx ports.NamespaceTx) error {
	if tx.Durable() && tx.Owner().IsTransient() {
		return &application.PermissionError{Resource: "namespace", Reason: "guests cannot modify the tree"}
	}
	return nil
}

// requireDurable rejects features that need a durable owner.
func requireDurable(tx ports.NamespaceTx, feature string) error {
	if !tx.Durable() {
		return &application.PermissionError{Resource: feature, Reason: "requires a durable owner"}
	}
	return requireWriter(tx)
}

// noteRoom loads the room bound to n.
func noteRoom(tx ports.NamespaceTx, n *domain.Note) (*domain.Room, error) {
	if n.RoomID == nil {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("room of note:%d", n.ID)}
	}
	return tx.Room(*n.RoomID)
}

// locateEditableNote resolves a note the actor may write: one it owns, or
// one whose room is editable when addressed by its token.
func locateEditableNote(tx ports.NamespaceTx, loc domain.Locator) (*domain.Note, error) {
	n, err := locateNote(tx, loc)
	if err == nil || !tx.Durable() || !errors.Is(err, domain.ErrNotFound) || loc.Token == "" {
		return n, err
	}

	r, lookupErr := tx.ByToken(loc.Token)
	if lookupErr != nil || r.Kind != domain.KindNote || (loc.ByID && r.ID != loc.ID) {
		return nil, err
	}
	n, err = tx.Note(r.ID)
	if err != nil {
		return nil, err
	}
	room, err := noteRoom(tx, n)
	if err != nil {
		return nil, err
	}
	if !room.IsEditable {
		return nil, &application.PermissionError{Resource: fmt.Sprintf("note:%d", n.ID), Reason: "room is not editable"}
	}
	return n, nil
}
