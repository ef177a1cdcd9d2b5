package model

import "time"

// Auditorium describes a venue with a rectangular seating grid.
// MaxHorizontal is the highest row label (e.g. "B" for a two-row
// hall) and MaxVertical the highest column label (e.g. "2").
// Together they bound the coordinates of every seat in the hall.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – venue name.
//  Address       – physical address.
//  MaxHorizontal – highest row label of the seating grid.
//  MaxVertical   – highest column label of the seating grid.
//  CompanyUserID – company account that registered the venue.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Auditorium struct {
	ID            uint64    // auditoriums.id
	Name          string    // auditoriums.name
	Address       string    // auditoriums.address
	MaxHorizontal string    // auditoriums.max_horizontal
	MaxVertical   string    // auditoriums.max_vertical
	CompanyUserID uint64    // auditoriums.company_user_id
	CreatedAt     time.Time // auditoriums.created_at
	UpdatedAt     time.Time // auditoriums.updated_at
}
