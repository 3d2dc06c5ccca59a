package transient

import (
	"fmt"
	"time"

	"noteboard/internal/domain"
)

// TimeLayout is the canonical timestamp form inside a snapshot.
const TimeLayout = time.RFC3339Nano

// Snapshot is the serialized transient tree: three flat sequences linked
// by ids.
type Snapshot struct {
	Folders []FolderRecord `json:"folders" cbor:"folders"`
	Notes   []NoteRecord   `json:"notes" cbor:"notes"`
	Rooms   []RoomRecord   `json:"rooms" cbor:"rooms"`
}

// FolderRecord is one folder of a snapshot
type FolderRecord struct {
	ID       int64  `json:"id" cbor:"id"`
	Name     string `json:"name" cbor:"name"`
	Token    string `json:"token" cbor:"token"`
	FolderID *int64 `json:"folder_id" cbor:"folder_id"`
	Date     string `json:"date" cbor:"date"`
	Index    int    `json:"index" cbor:"index"`
}

// NoteRecord is one note of a snapshot; its text travels inline
type NoteRecord struct {
	ID       int64  `json:"id" cbor:"id"`
	Name     string `json:"name" cbor:"name"`
	Token    string `json:"token" cbor:"token"`
	FolderID *int64 `json:"folder_id" cbor:"folder_id"`
	RoomID   *int64 `json:"room_id" cbor:"room_id"`
	Date     string `json:"date" cbor:"date"`
	Index    int    `json:"index" cbor:"index"`
	Text     string `json:"text" cbor:"text"`
}

// RoomRecord is one room of a snapshot
type RoomRecord struct {
	ID   int64  `json:"id" cbor:"id"`
	Name string `json:"name" cbor:"name"`
}

// IsEmpty reports whether the snapshot holds nothing.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Folders) == 0 && len(s.Notes) == 0 && len(s.Rooms) == 0
}

// NextIDs derives the id counters of the snapshot.
func (s *Snapshot) NextIDs() domain.NextIDs {
	folders := make([]int64, len(s.Folders))
	for i, f := range s.Folders {
		folders[i] = f.ID
	}
	notes := make([]int64, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = n.ID
	}
	rooms := make([]int64, len(s.Rooms))
	for i, r := range s.Rooms {
		rooms[i] = r.ID
	}
	return domain.DeriveNextIDs(folders, notes, rooms)
}

// Tree reconstructs the arena. Each sequence is registered on its own,
// then the builder wires parents and rooms.
func (s *Snapshot) Tree() (*domain.Tree, error) {
	b := domain.NewTreeBuilder()

	for _, r := range s.Rooms {
		if err := b.AddRoom(domain.Room{ID: r.ID, Name: r.Name}); err != nil {
			return nil, err
		}
	}
	for _, f := range s.Folders {
		created, err := parseTime(f.Date)
		if err != nil {
			return nil, fmt.Errorf("folder %d: %w", f.ID, err)
		}
		folder := domain.Folder{Node: domain.Node{
			ID:        f.ID,
			Name:      f.Name,
			Token:     f.Token,
			ParentID:  copyID(f.FolderID),
			Index:     f.Index,
			CreatedAt: created,
		}}
		if err := b.AddFolder(folder); err != nil {
			return nil, err
		}
	}
	for _, n := range s.Notes {
		created, err := parseTime(n.Date)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", n.ID, err)
		}
		note := domain.Note{
			Node: domain.Node{
				ID:        n.ID,
				Name:      n.Name,
				Token:     n.Token,
				ParentID:  copyID(n.FolderID),
				Index:     n.Index,
				CreatedAt: created,
			},
			RoomID:  copyID(n.RoomID),
			Text:    n.Text,
			Display: domain.DisplayText,
		}
		if err := b.AddNote(note); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// FromTree flattens the arena back into a snapshot, keeping the order in
// which entities were first seen.
func FromTree(t *domain.Tree) *Snapshot {
	folders := t.Folders()
	notes := t.Notes()
	rooms := t.Rooms()

	s := &Snapshot{
		Folders: make([]FolderRecord, 0, len(folders)),
		Notes:   make([]NoteRecord, 0, len(notes)),
		Rooms:   make([]RoomRecord, 0, len(rooms)),
	}
	for _, f := range folders {
		s.Folders = append(s.Folders, FolderRecord{
			ID:       f.ID,
			Name:     f.Name,
			Token:    f.Token,
			FolderID: copyID(f.ParentID),
			Date:     formatTime(f.CreatedAt),
			Index:    f.Index,
		})
	}
	for _, n := range notes {
		s.Notes = append(s.Notes, NoteRecord{
			ID:       n.ID,
			Name:     n.Name,
			Token:    n.Token,
			FolderID: copyID(n.ParentID),
			RoomID:   copyID(n.RoomID),
			Date:     formatTime(n.CreatedAt),
			Index:    n.Index,
			Text:     n.Text,
		})
	}
	for _, r := range rooms {
		s.Rooms = append(s.Rooms, RoomRecord{ID: r.ID, Name: r.Name})
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "date", Message: fmt.Sprintf("invalid timestamp %q", s)}
	}
	return t.UTC(), nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
