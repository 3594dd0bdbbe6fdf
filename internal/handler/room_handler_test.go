package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/dto"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom_Handler(t *testing.T) {
	svc := &mockRoomService{
		createFn: func(_ context.Context, in service.CreateRoomInput) (*models.Room, error) {
			assert.Equal(t, 4, in.Capacity)
			assert.True(t, in.NetPrice.Equal(decimal.RequireFromString("80.50")))
			room := &models.Room{
				ID: 1, HotelID: in.HotelID, RoomTypeID: in.RoomTypeID, Capacity: in.Capacity, Count: in.Count,
				AvailableCount: in.Count, RemainingCapacity: in.Capacity * in.Count,
			}
			room.ApplyPricing(in.NetPrice, in.Profit)
			return room, nil
		},
	}
	body := `{"hotel_id":1,"room_type_id":2,"capacity":4,"count":3,"net_price":"80.50","profit":"19.50"}`
	c, rec := newContext(http.MethodPost, "/api/v1/hotel/rooms", body)

	require.NoError(t, NewRoomHandler(svc).CreateRoom(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.RoomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.RemainingCapacity)
	assert.True(t, resp.GrossPrice.Equal(decimal.NewFromInt(100)))
}

func TestCreateRoom_Handler_Validation(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/hotel/rooms", `{"hotel_id":1,"capacity":0,"count":1}`)

	err := NewRoomHandler(nil).CreateRoom(c)

	var fields validation.Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "room_type_id")
	assert.Contains(t, fields, "capacity")
}

func TestCreateRoom_Handler_Duplicate(t *testing.T) {
	svc := &mockRoomService{
		createFn: func(context.Context, service.CreateRoomInput) (*models.Room, error) {
			return nil, service.ErrRoomExists
		},
	}
	c, _ := newContext(http.MethodPost, "/api/v1/hotel/rooms", `{"hotel_id":1,"room_type_id":2,"capacity":2,"count":1}`)

	err := NewRoomHandler(svc).CreateRoom(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestGenerateRooms_Handler_UsesPathHotel(t *testing.T) {
	svc := &mockRoomService{
		generateFn: func(_ context.Context, in service.GenerateRoomsInput) ([]models.Room, error) {
			assert.Equal(t, uint(7), in.HotelID)
			assert.Empty(t, in.RoomTypeIDs)
			return []models.Room{{ID: 1, HotelID: 7}, {ID: 2, HotelID: 7}}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/v1/hotel/hotels/7/rooms/generate", `{"capacity":2,"count":5}`, "id", "7")

	require.NoError(t, NewRoomHandler(svc).GenerateRooms(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp []dto.RoomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUpdateRoom_Handler_CountBelowOccupied(t *testing.T) {
	svc := &mockRoomService{
		updateFn: func(_ context.Context, id uint, in service.UpdateRoomInput) (*models.Room, error) {
			require.NotNil(t, in.Count)
			assert.Equal(t, 1, *in.Count)
			assert.Nil(t, in.NetPrice)
			return nil, service.ErrCountBelowOccupied
		},
	}
	c, _ := newContext(http.MethodPatch, "/api/v1/hotel/rooms/2", `{"count":1}`, "id", "2")

	err := NewRoomHandler(svc).UpdateRoom(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestDeleteRoom_Handler_Busy(t *testing.T) {
	svc := &mockRoomService{
		deleteFn: func(context.Context, uint) error { return service.ErrRoomBusy },
	}
	c, _ := newContext(http.MethodDelete, "/api/v1/hotel/rooms/2", "", "id", "2")

	err := NewRoomHandler(svc).DeleteRoom(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestReconcileRoom_Handler(t *testing.T) {
	t.Run("counters", func(t *testing.T) {
		svc := &mockRoomService{
			reconcileFn: func(_ context.Context, id uint) (*models.Room, error) {
				return &models.Room{ID: id, Capacity: 2, Count: 2, OccupiedCount: 1, AvailableCount: 1, RemainingCapacity: 2}, nil
			},
		}
		c, rec := newContext(http.MethodPost, "/api/v1/hotel/rooms/5/reconcile", "", "id", "5")

		require.NoError(t, NewRoomHandler(svc).ReconcileRoom(c))

		var resp dto.RoomResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.OccupiedCount)
		assert.False(t, resp.IsBusy)
	})

	t.Run("misconfigured", func(t *testing.T) {
		svc := &mockRoomService{
			reconcileFn: func(context.Context, uint) (*models.Room, error) {
				return nil, occupancy.ErrRoomMisconfigured
			},
		}
		c, _ := newContext(http.MethodPost, "/api/v1/hotel/rooms/5/reconcile", "", "id", "5")

		err := NewRoomHandler(svc).ReconcileRoom(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestListRooms_Handler(t *testing.T) {
	svc := &mockRoomService{
		listFn: func(_ context.Context, hotelID uint) ([]models.Room, error) {
			assert.Equal(t, uint(3), hotelID)
			return nil, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/hotel/hotels/3/rooms", "", "id", "3")

	require.NoError(t, NewRoomHandler(svc).ListRooms(c))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
