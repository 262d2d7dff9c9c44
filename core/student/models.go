package student

import (
	"github.com/volatiletech/null/v8"

	"github.com/tharun-r1705/data-frontend-new/core"
)

// Hostel statuses
const (
	StatusHostel     = "hostel"
	StatusDayScholar = "dayscholar"
)

// Profile is a student's data-collection record. Only the required fields are
// plain strings; everything else is nullable and may be absent until the
// student fills it in.
type Profile struct {
	ID                 string       `json:"_id,omitempty"`
	UserID             string       `json:"user,omitempty"`
	RollNo             string       `json:"rollNo" validate:"required"`
	Name               string       `json:"name" validate:"required"`
	Class              string       `json:"class" validate:"required"`
	Section            string       `json:"section" validate:"required"`
	PhoneNumber        string       `json:"phoneNumber" validate:"required"`
	Email              string       `json:"email" validate:"required,email"`
	Address            null.String  `json:"address,omitempty"`
	Clubs              []string     `json:"clubs,omitempty"`
	DOB                null.String  `json:"dob,omitempty"`
	CertificationsCnt  null.Int     `json:"certificationsCount,omitempty"`
	TenthMark          null.Float64 `json:"tenthMark,omitempty"`
	TwelfthMark        null.Float64 `json:"twelfthMark,omitempty"`
	HostelOrDayScholar null.String  `json:"hostelOrDayScholar,omitempty" validate:"omitempty,oneof=hostel dayscholar"`
	RoomNumber         null.String  `json:"roomNumber,omitempty"`
	BusNumber          null.String  `json:"busNumber,omitempty"`
}

func (p *Profile) Validate() error {
	p.RollNo = core.CleanString(p.RollNo)
	p.Name = core.CleanString(p.Name)
	p.Class = core.CleanString(p.Class)
	p.Section = core.CleanString(p.Section)
	p.PhoneNumber = core.CleanString(p.PhoneNumber)
	p.Email = core.CleanEmail(p.Email)
	return core.TranslateValidationErrors(core.Validate.Struct(p))
}

// Info is the server's answer to profile reads and upserts: the profile plus
// the server-computed completeness and review annotations.
type Info struct {
	Profile       Profile  `json:"profile"`
	MissingFields []string `json:"missingFields"`
	FlaggedFields []string `json:"flaggedFields"`
}
