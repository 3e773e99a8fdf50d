// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the document types stored in the festival database.
// The collections were populated over several seasons by different scripts,
// so the reader side must tolerate loose shapes: dangling references,
// inconsistently cased member fields, and leader data stored either as a
// reference or as an embedded legacy contact document.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles assigned at session time. Admin is derived from the allow-list,
// never from the stored user document.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Event is a festival event document in the events collection.
type Event struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Title                string             `bson:"title"`
	Description          string             `bson:"description"`
	Date                 time.Time          `bson:"date"`
	Venue                string             `bson:"venue"`
	MaxTeamSize          int                `bson:"maxTeamSize"`
	MinTeamSize          int                `bson:"minTeamSize"`
	RegistrationDeadline time.Time          `bson:"registrationDeadline"`
	CreatedAt            time.Time          `bson:"createdAt"`
	Type                 string             `bson:"type"`
}

// EventSummary is the projection attached to enriched teams.
type EventSummary struct {
	ID    string `bson:"_id" json:"id"`
	Title string `bson:"title" json:"title"`
}

// User is a document in the users collection, seeded from distinct leader
// emails found in team registrations.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// TeamMember is the structured member sub-record, used as a fallback when
// the flat member1..3 fields are absent.
type TeamMember struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Team is a registration document in the teams collection. The flat member
// fields carry every historical spelling so that coalescing happens in one
// place (MemberFields) instead of scattered duck-typed lookups.
type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	EventID     Ref                `bson:"event,omitempty"`
	LeaderID    Ref                `bson:"leader,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	Email       string             `bson:"email,omitempty"`
	Fullname    string             `bson:"fullname,omitempty"`
	Institution string             `bson:"institution,omitempty"`

	Member1       string `bson:"member1,omitempty"`
	Member1Cap    string `bson:"Member1,omitempty"`
	Member1Legacy string `bson:"member_1,omitempty"`
	Member2       string `bson:"member2,omitempty"`
	Member2Cap    string `bson:"Member2,omitempty"`
	Member2Legacy string `bson:"member_2,omitempty"`
	Member3       string `bson:"member3,omitempty"`
	Member3Cap    string `bson:"Member3,omitempty"`
	Member3Legacy string `bson:"member_3,omitempty"`

	Members          []TeamMember `bson:"members,omitempty"`
	RegistrationDate time.Time    `bson:"registrationDate"`
}

// MemberFields resolves the three flat member slots by coalescing the
// accepted alias spellings in precedence order: exact-case first, then
// capitalized, then underscored. First non-empty value wins; a slot with no
// value in any spelling resolves to "".
func (t Team) MemberFields() [3]string {
	return [3]string{
		coalesce(t.Member1, t.Member1Cap, t.Member1Legacy),
		coalesce(t.Member2, t.Member2Cap, t.Member2Legacy),
		coalesce(t.Member3, t.Member3Cap, t.Member3Legacy),
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Ref is a loose reference into another collection. Stored encodings vary:
// an ObjectID on current rows, a hex string on some imported rows, an
// embedded document on legacy rows (resolvable only when it carries an _id),
// or null. A Ref that cannot be resolved decodes to the zero value rather
// than failing the whole document.
type Ref struct {
	ID primitive.ObjectID
}

// IsZero reports whether the reference is absent or unresolvable.
func (r Ref) IsZero() bool {
	return r.ID.IsZero()
}

// Hex returns the referenced identity as an opaque hex string, or "" when
// the reference is absent.
func (r Ref) Hex() string {
	if r.IsZero() {
		return ""
	}
	return r.ID.Hex()
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*r = Ref{}
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.ObjectID:
		if oid, ok := rv.ObjectIDOK(); ok {
			r.ID = oid
		}
	case bsontype.String:
		if s, ok := rv.StringValueOK(); ok {
			if oid, err := primitive.ObjectIDFromHex(s); err == nil {
				r.ID = oid
			}
		}
	case bsontype.EmbeddedDocument:
		// Legacy rows embed the whole contact record. Resolve only when the
		// embedded document carries its own _id.
		if doc, ok := rv.DocumentOK(); ok {
			if v, err := doc.LookupErr("_id"); err == nil {
				if oid, ok := v.ObjectIDOK(); ok {
					r.ID = oid
				}
			}
		}
	case bsontype.Null, bsontype.Undefined:
		// absent
	default:
		// Unknown encodings degrade to an unresolved reference.
	}
	return nil
}

// MarshalBSONValue implements bson.ValueMarshaler so seeded documents store
// the canonical ObjectID encoding.
func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if r.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(r.ID)
}
