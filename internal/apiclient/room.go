package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/stemsi/seatdesk/internal/model"
)

// RoomDetails loads a room with its allocations and the exam's students.
func (c *Client) RoomDetails(ctx context.Context, roomID int) (*model.RoomDetails, error) {
	var out model.RoomDetails
	q := url.Values{"room_id": {strconv.Itoa(roomID)}}
	if err := c.getJSON(ctx, "room details", "/get_room_details/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MutateSeat upserts one seat, or clears it when m.Registration is empty.
func (c *Client) MutateSeat(ctx context.Context, m model.SeatMutation) (*model.SeatMutationResult, error) {
	var out model.SeatMutationResult
	if err := c.postJSON(ctx, "mutate seat", "/add_student_to_seat/", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
