package model

import "time"

// Concert represents a scheduled performance inside an auditorium.
// Concerts are created and managed by company users; regular users
// only read them when browsing or reserving seats.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the concert.
//  Description   – free-form description shown to users.
//  StartTime     – when the concert begins (UTC).
//  CompanyUserID – company account that owns this concert.
//  AuditoriumID  – auditorium the concert takes place in.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Concert struct {
	ID            uint64    // concerts.id
	Name          string    // concerts.name
	Description   string    // concerts.description
	StartTime     time.Time // concerts.start_time
	CompanyUserID uint64    // concerts.company_user_id
	AuditoriumID  uint64    // concerts.auditorium_id
	CreatedAt     time.Time // concerts.created_at
	UpdatedAt     time.Time // concerts.updated_at
}
