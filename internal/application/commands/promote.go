package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/metrics"
	"noteboard/internal/ports"
)

// PromoteResult contains the result of a promotion
type PromoteResult struct {
	Owner   domain.Owner
	Folders map[int64]int64
	Notes   map[int64]int64
	Rooms   map[int64]int64
	// AlreadyPromoted is set when the owner already held the snapshot and
	// only the leftover snapshot was cleared
	AlreadyPromoted bool
	Message         string
}

// PromoteCommand transplants a transient tree into a durable namespace in
// one transaction, then clears the transient snapshot
type PromoteCommand struct {
	source ports.Promotable
	target ports.Namespace
}

// NewPromoteCommand creates a new PromoteCommand
func NewPromoteCommand(source ports.Promotable, target ports.Namespace) *PromoteCommand {
	return &PromoteCommand{source: source, target: target}
}

// Validate checks if the promotion can start
func (c *PromoteCommand) Validate() error {
	if c.target.Owner().IsTransient() {
		return &application.ValidationError{Field: "owner", Message: "promotion needs a durable owner"}
	}
	if !c.source.Owner().IsTransient() {
		return &application.ValidationError{Field: "source", Message: "only a transient namespace can be promoted"}
	}
	return nil
}

// Execute runs the promotion
func (c *PromoteCommand) Execute(ctx context.Context) (*PromoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var result *PromoteResult
	err := c.source.Drain(ctx, func(tree *domain.Tree) error {
		if tree.Len() == 0 {
			return application.ErrNothingToPromote
		}
		return Retry.Do(ctx, "promote", func(ctx context.Context) error {
			return c.target.Update(ctx, func(tx ports.NamespaceTx) error {
				res, err := transplant(tx, tree)
				if err != nil {
					return err
				}
				result = res
				return nil
			})
		})
	})
	observe(ctx, c.target, "promote", start, err)
	if err != nil {
		metrics.PromotionsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to promote: %w", err)
	}

	metrics.PromotionsTotal.WithLabelValues("success").Inc()
	metrics.PromotedResourcesTotal.WithLabelValues("folder").Add(float64(len(result.Folders)))
	metrics.PromotedResourcesTotal.WithLabelValues("note").Add(float64(len(result.Notes)))
	metrics.PromotedResourcesTotal.WithLabelValues("room").Add(float64(len(result.Rooms)))

	if result.AlreadyPromoted {
		result.Message = fmt.Sprintf("Snapshot was already promoted to %s; cleared it", result.Owner)
		return result, nil
	}
	result.Message = fmt.Sprintf("Promoted %d folders and %d notes to %s", len(result.Folders), len(result.Notes), result.Owner)
	return result, nil
}

// transplant copies tree into tx. Folders go in twice: first without
// parents to learn their new ids, then linked through the id map. Rooms
// come next and notes last, once both maps are complete. Root entries are
// appended after whatever the owner already has.
func transplant(tx ports.NamespaceTx, tree *domain.Tree) (*PromoteResult, error) {
	if err := requireDurable(tx, "promotion"); err != nil {
		return nil, err
	}
	res := &PromoteResult{
		Owner:   tx.Owner(),
		Folders: make(map[int64]int64),
		Notes:   make(map[int64]int64),
		Rooms:   make(map[int64]int64),
	}
	held, err := alreadyHeld(tx, tree)
	if err != nil {
		return nil, err
	}
	if held {
		res.AlreadyPromoted = true
		return res, nil
	}

	existing, err := tx.Children(nil)
	if err != nil {
		return nil, err
	}
	offset := len(existing)

	rootIndex := func(n domain.Node) int {
		if n.ParentID == nil {
			return n.Index + offset
		}
		return n.Index
	}

	folders := tree.Folders()
	for _, f := range folders {
		df := &domain.Folder{Node: domain.Node{
			Owner:     tx.Owner(),
			Name:      f.Name,
			Token:     f.Token,
			Index:     rootIndex(f.Node),
			CreatedAt: f.CreatedAt,
		}}
		if err := tx.InsertFolder(df); err != nil {
			return nil, fmt.Errorf("folder %d: %w", f.ID, err)
		}
		res.Folders[f.ID] = df.ID
	}
	for _, f := range folders {
		if f.ParentID == nil {
			continue
		}
		parent := res.Folders[*f.ParentID]
		ref := domain.Ref{Kind: domain.KindFolder, ID: res.Folders[f.ID]}
		if err := tx.Move(ref, &parent, f.Index); err != nil {
			return nil, fmt.Errorf("folder %d: %w", f.ID, err)
		}
	}

	for _, r := range tree.Rooms() {
		dr := &domain.Room{Owner: tx.Owner(), Name: r.Name, IsPublic: r.IsPublic, IsEditable: r.IsEditable}
		if err := tx.InsertRoom(dr); err != nil {
			return nil, fmt.Errorf("room %d: %w", r.ID, err)
		}
		res.Rooms[r.ID] = dr.ID
	}

	for _, n := range tree.Notes() {
		dn := &domain.Note{
			Node: domain.Node{
				Owner:     tx.Owner(),
				Name:      n.Name,
				Token:     n.Token,
				Index:     rootIndex(n.Node),
				CreatedAt: n.CreatedAt,
			},
			Display: domain.DisplayText,
			Canvas:  &domain.Canvas{Background: domain.DefaultCanvasBackground},
		}
		if n.ParentID != nil {
			parent := res.Folders[*n.ParentID]
			dn.ParentID = &parent
		}
		if n.RoomID != nil {
			room := res.Rooms[*n.RoomID]
			dn.RoomID = &room
		} else {
			room := &domain.Room{Owner: tx.Owner(), Name: domain.NewRoomName()}
			if err := tx.InsertRoom(room); err != nil {
				return nil, fmt.Errorf("note %d: %w", n.ID, err)
			}
			dn.RoomID = &room.ID
		}

		if err := tx.InsertNote(dn); err != nil {
			return nil, fmt.Errorf("note %d: %w", n.ID, err)
		}
		if n.Text != "" {
			if err := tx.StoreText(dn, n.Text); err != nil {
				return nil, fmt.Errorf("note %d text: %w", n.ID, err)
			}
		}
		res.Notes[n.ID] = dn.ID
	}
	return res, nil
}

// alreadyHeld reports whether every token of tree already belongs to the
// owner of tx. That happens when a promotion committed but clearing the
// snapshot failed.
func alreadyHeld(tx ports.NamespaceTx, tree *domain.Tree) (bool, error) {
	var tokens []string
	for _, f := range tree.Folders() {
		tokens = append(tokens, f.Token)
	}
	for _, n := range tree.Notes() {
		tokens = append(tokens, n.Token)
	}
	for _, token := range tokens {
		r, err := tx.ByToken(token)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if r.Owner != tx.Owner() {
			return false, nil
		}
	}
	return len(tokens) > 0, nil
}
