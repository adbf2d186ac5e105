package wizard

import (
	"testing"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

func roomOf(building, number string, capacity int) model.Room {
	return model.Room{Building: building, RoomNumber: number, Capacity: capacity}
}

func TestRoomListRejectsDuplicate(t *testing.T) {
	var l RoomList
	if err := l.Add(roomOf("Main", "101", 40)); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := l.Add(roomOf("Main", "101", 30))
	if response.CodeOf(err) != response.ErrDuplicateRoom {
		t.Fatalf("expected duplicate room error, got %v", err)
	}
	if !response.IsPrecondition(err) {
		t.Error("duplicate check must be a precondition failure")
	}
	rooms := l.Rooms()
	if len(rooms) != 1 || rooms[0].Capacity != 40 {
		t.Errorf("list changed: %+v", rooms)
	}
}

func TestRoomListChecks(t *testing.T) {
	tests := []struct {
		name string
		room model.Room
		code response.ErrCode
	}{
		{"MissingBuilding", roomOf("", "101", 30), response.ErrIncompleteFields},
		{"ZeroCapacity", roomOf("Main", "101", 0), response.ErrIncompleteFields},
		{"NameClash", roomOf("303", "303", 30), response.ErrRoomNameClash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l RoomList
			if err := l.Add(tt.room); response.CodeOf(err) != tt.code {
				t.Errorf("got %v, want %s", err, tt.code)
			}
			if l.Len() != 0 {
				t.Error("rejected room was added")
			}
		})
	}
}

func TestRoomListSameNumberOtherBuilding(t *testing.T) {
	var l RoomList
	_ = l.Add(roomOf("Main", "101", 40))
	if err := l.Add(roomOf("Annex", "101", 25)); err != nil {
		t.Fatalf("same number in another building is allowed: %v", err)
	}
	if l.TotalCapacity() != 65 {
		t.Errorf("capacity = %d", l.TotalCapacity())
	}
	if err := l.Remove(0); err != nil || l.Len() != 1 {
		t.Errorf("remove: %v", err)
	}
	if l.Remove(5) == nil {
		t.Error("out of range remove should fail")
	}
}
