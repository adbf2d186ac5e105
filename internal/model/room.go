package model

import "strings"

// Room is an exam hall. ID is zero until the server has stored it.
type Room struct {
	ID         int    `json:"id,omitempty"`
	Building   string `json:"building" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required,nefield=Building"`
	Capacity   int    `json:"capacity" binding:"required,gt=0"`
}

// SameSlot reports whether both rooms name the same building and room number.
func (r Room) SameSlot(other Room) bool {
	return strings.TrimSpace(r.Building) == strings.TrimSpace(other.Building) &&
		strings.TrimSpace(r.RoomNumber) == strings.TrimSpace(other.RoomNumber)
}

// AddRoomsRequest submits the whole room list of a draft.
type AddRoomsRequest struct {
	ExamID int    `json:"exam_id" binding:"required"`
	Rooms  []Room `json:"rooms" binding:"required,min=1,dive"`
}

// RoomIDRequest names a stored room.
type RoomIDRequest struct {
	RoomID int `json:"room_id" binding:"required"`
}
