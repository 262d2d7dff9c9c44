package stubapi

import (
	"sync"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/tharun-r1705/data-frontend-new/core/student"
)

// requiredProfileFields drive the missingFields annotation.
var requiredProfileFields = []string{"rollNo", "name", "class", "section", "phoneNumber", "email"}

type (
	account struct {
		ID           string
		Email        string
		Role         string
		Name         string
		PasswordHash []byte
	}

	artifact struct {
		data          []byte
		suggestedName string
	}

	dataset struct {
		mu           sync.Mutex
		accounts     map[string]*account // keyed by email
		accountsByID map[string]*account
		profiles     map[string]*student.Profile // keyed by owner user id
		flagged      map[string]map[string]bool  // user id -> flagged field set
		lastConv     map[string]string           // user id -> last conversation id
		artifacts    map[string]artifact         // internal name -> artifact
	}
)

func newDataset() *dataset {
	return &dataset{
		accounts:     make(map[string]*account),
		accountsByID: make(map[string]*account),
		profiles:     make(map[string]*student.Profile),
		flagged:      make(map[string]map[string]bool),
		lastConv:     make(map[string]string),
		artifacts:    make(map[string]artifact),
	}
}

// seed populates a few student records so queries and exports return data.
func (d *dataset) seed() {
	seedProfiles := []student.Profile{
		{
			RollNo: "21CS001", Name: "Aisha Verma", Class: "CSE", Section: "A",
			PhoneNumber: "9876500001", Email: "aisha@school.test",
			TenthMark: null.Float64From(468), TwelfthMark: null.Float64From(452),
			HostelOrDayScholar: null.StringFrom(student.StatusHostel),
			RoomNumber:         null.StringFrom("H2-114"),
		},
		{
			RollNo: "21CS002", Name: "Rahul Nair", Class: "CSE", Section: "B",
			PhoneNumber: "9876500002", Email: "rahul@school.test",
			TenthMark: null.Float64From(431),
			HostelOrDayScholar: null.StringFrom(student.StatusDayScholar),
			BusNumber:          null.StringFrom("17"),
		},
		{
			RollNo: "21EC005", Name: "Meera Pillai", Class: "ECE", Section: "A",
			PhoneNumber: "9876500003", Email: "meera@school.test",
			TenthMark: null.Float64From(489), TwelfthMark: null.Float64From(471),
			HostelOrDayScholar: null.StringFrom(student.StatusHostel),
			RoomNumber:         null.StringFrom("H1-208"),
		},
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range seedProfiles {
		p := seedProfiles[i]
		ownerID := uuid.New().String()
		p.ID = uuid.New().String()
		p.UserID = ownerID
		d.profiles[ownerID] = &p
	}
}

func (d *dataset) createAccount(email, role, name string, hash []byte) (*account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[email]; exists {
		return nil, false
	}
	acct := &account{
		ID:           uuid.New().String(),
		Email:        email,
		Role:         role,
		Name:         name,
		PasswordHash: hash,
	}
	d.accounts[email] = acct
	d.accountsByID[acct.ID] = acct
	return acct, true
}

func (d *dataset) accountByEmail(email string) (*account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.accounts[email]
	return acct, ok
}

func (d *dataset) accountByID(id string) (*account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.accountsByID[id]
	return acct, ok
}

func (d *dataset) setPassword(id string, hash []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.accountsByID[id]
	if !ok {
		return false
	}
	acct.PasswordHash = hash
	return true
}

func (d *dataset) profileFor(userID string) (*student.Profile, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[userID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (d *dataset) upsertProfile(userID string, p student.Profile) student.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.profiles[userID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = uuid.New().String()
	}
	p.UserID = userID
	d.profiles[userID] = &p
	return p
}

// profileByRecordID looks a profile up by its own id (teachers flag by record id).
func (d *dataset) profileByRecordID(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ownerID, p := range d.profiles {
		if p.ID == id {
			return ownerID, true
		}
	}
	return "", false
}

func (d *dataset) flagField(userID, field string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.flagged[userID] == nil {
		d.flagged[userID] = make(map[string]bool)
	}
	d.flagged[userID][field] = true
}

func (d *dataset) unflagField(userID, field string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.flagged[userID], field)
}

func (d *dataset) flaggedFields(userID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	fields := make([]string, 0, len(d.flagged[userID]))
	for f := range d.flagged[userID] {
		fields = append(fields, f)
	}
	return fields
}

func (d *dataset) allProfiles() []student.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	profiles := make([]student.Profile, 0, len(d.profiles))
	for _, p := range d.profiles {
		profiles = append(profiles, *p)
	}
	return profiles
}

func (d *dataset) setLastConversation(userID, convID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastConv[userID] = convID
}

func (d *dataset) lastConversation(userID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastConv[userID]
}

func (d *dataset) putArtifact(name string, art artifact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifacts[name] = art
}

func (d *dataset) artifact(name string) (artifact, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	art, ok := d.artifacts[name]
	return art, ok
}

func missingFields(p student.Profile) []string {
	present := map[string]string{
		"rollNo":      p.RollNo,
		"name":        p.Name,
		"class":       p.Class,
		"section":     p.Section,
		"phoneNumber": p.PhoneNumber,
		"email":       p.Email,
	}
	// always an array on the wire, even when empty
	missing := []string{}
	for _, f := range requiredProfileFields {
		if present[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
