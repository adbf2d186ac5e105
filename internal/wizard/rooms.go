package wizard

import (
	"fmt"
	"strings"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
)

// RoomList is the draft's room list. No two rooms share a building and room
// number, and a building never equals its room number.
type RoomList struct {
	rooms []model.Room
}

// Add appends r or returns a precondition error, leaving the list unchanged.
func (l *RoomList) Add(r model.Room) error {
	const op = "add room"
	r.Building = strings.TrimSpace(r.Building)
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)

	if r.Building == "" || r.RoomNumber == "" || r.Capacity <= 0 {
		return response.Precondition(op, response.ErrIncompleteFields,
			"Please fill in all fields (Building, Room Number, Capacity).")
	}
	for _, existing := range l.rooms {
		if existing.SameSlot(r) {
			return response.Precondition(op, response.ErrDuplicateRoom,
				fmt.Sprintf("Room %q in %q already exists.", r.RoomNumber, r.Building))
		}
	}
	if fields := validator.Struct(r); fields != nil {
		if r.Building == r.RoomNumber {
			return response.Precondition(op, response.ErrRoomNameClash, "")
		}
		return response.Precondition(op, response.ErrIncompleteFields, validator.Summary(fields))
	}

	l.rooms = append(l.rooms, r)
	return nil
}

// Remove deletes room i.
func (l *RoomList) Remove(i int) error {
	if i < 0 || i >= len(l.rooms) {
		return fmt.Errorf("no room %d", i+1)
	}
	l.rooms = append(l.rooms[:i], l.rooms[i+1:]...)
	return nil
}

// Rooms returns a copy of the list.
func (l *RoomList) Rooms() []model.Room {
	return append([]model.Room(nil), l.rooms...)
}

// Len returns the number of rooms.
func (l *RoomList) Len() int { return len(l.rooms) }

// TotalCapacity sums room capacities.
func (l *RoomList) TotalCapacity() int {
	total := 0
	for _, r := range l.rooms {
		total += r.Capacity
	}
	return total
}

// Ready requires at least one room.
func (l *RoomList) Ready() error {
	if len(l.rooms) == 0 {
		return response.Precondition("rooms", response.ErrIncompleteFields, "Add at least one room.")
	}
	return nil
}
