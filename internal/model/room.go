package model

// Room is a physical room as the backend reports it.
type Room struct {
	ID           string `json:"id"`
	RoomNumber   string `json:"roomNumber"`
	Floor        int    `json:"floor"`
	Status       string `json:"status"`
	BranchID     string `json:"branchId"`
	RoomTypeID   string `json:"roomTypeId"`
	RoomTypeName string `json:"roomTypeName"`
	BasePrice    int64  `json:"basePrice"`
	SalePrice    int64  `json:"salePrice,omitempty"`
	MaxGuests    int    `json:"maxOccupancy"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// NightlyPrice is the price the client shows per night: the sale price when
// one is set, otherwise the base price.
func (r Room) NightlyPrice() int64 {
	if r.SalePrice > 0 {
		return r.SalePrice
	}
	return r.BasePrice
}

// Snapshot captures the room as it is when the guest selects it.
func (r Room) Snapshot() BookingRoom {
	return BookingRoom{
		RoomID:       r.ID,
		RoomNumber:   r.RoomNumber,
		RoomTypeID:   r.RoomTypeID,
		RoomTypeName: r.RoomTypeName,
		BasePrice:    r.NightlyPrice(),
		ImageURL:     r.ImageURL,
	}
}

// RoomSearch holds the filters of the room selection page.
type RoomSearch struct {
	BranchID   string `query:"branchId" json:"branchId"`
	CheckIn    string `query:"checkIn" json:"checkIn"`
	CheckOut   string `query:"checkOut" json:"checkOut"`
	Guests     int    `query:"guests" json:"guests"`
	RoomTypeID string `query:"roomTypeId" json:"roomTypeId,omitempty"`
	PageQuery
}

// RoomAvailability is one entry of the batched availability answer.
type RoomAvailability struct {
	RoomID    string `json:"roomId"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Branch is a hotel location.
type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Status  string `json:"status,omitempty"`
}
