package stubapi

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/tharun-r1705/data-frontend-new/core/student"
)

var (
	errInvalidCredentials = echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
	errEmailTaken         = echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	errProfileNotFound    = echo.NewHTTPError(http.StatusNotFound, "profile not found")
)

func (s *server) signup(ctx echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Name     string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if req.Role != "student" && req.Role != "teacher" {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be student or teacher")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acct, ok := s.data.createAccount(req.Email, req.Role, req.Name, hash)
	if !ok {
		return errEmailTaken
	}
	return s.grantResponse(ctx, http.StatusCreated, acct)
}

func (s *server) login(ctx echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	acct, ok := s.data.accountByEmail(req.Email)
	if !ok {
		return errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)); err != nil {
		return errInvalidCredentials
	}
	return s.grantResponse(ctx, http.StatusOK, acct)
}

func (s *server) grantResponse(ctx echo.Context, code int, acct *account) error {
	token, err := s.mintToken(acct)
	if err != nil {
		return err
	}
	return ctx.JSON(code, echo.Map{
		"user": echo.Map{
			"id":    acct.ID,
			"email": acct.Email,
			"role":  acct.Role,
			"name":  acct.Name,
		},
		"token": token,
	})
}

func (s *server) logout(ctx echo.Context) error {
	// tokens are stateless here; the ack is all the contract asks for
	return ctx.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (s *server) changePassword(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err = ctx.Bind(&req); err != nil {
		return err
	}

	acct, ok := s.data.accountByID(claims.Subject)
	if !ok {
		return errInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.CurrentPassword)); err != nil {
		return errInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if !s.data.setPassword(claims.Subject, hash) {
		return errInvalidCredentials
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

func (s *server) getOwnProfile(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	p, ok := s.data.profileFor(claims.Subject)
	if !ok {
		return errProfileNotFound
	}
	return s.profileResponse(ctx, claims.Subject, *p)
}

func (s *server) upsertOwnProfile(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	var p student.Profile
	if err = ctx.Bind(&p); err != nil {
		return err
	}
	saved := s.data.upsertProfile(claims.Subject, p)
	return s.profileResponse(ctx, claims.Subject, saved)
}

func (s *server) profileResponse(ctx echo.Context, userID string, p student.Profile) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"profile":       p,
		"missingFields": missingFields(p),
		"flaggedFields": s.data.flaggedFields(userID),
	})
}

func (s *server) unflagOwnField(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	var req struct {
		FieldName string `json:"fieldName"`
	}
	if err = ctx.Bind(&req); err != nil {
		return err
	}
	s.data.unflagField(claims.Subject, req.FieldName)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "field unflagged"})
}

func (s *server) flagStudentField(ctx echo.Context) error {
	var req struct {
		FieldName string `json:"fieldName"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	id := ctx.Param("id")
	ownerID, ok := s.data.profileByRecordID(id)
	if !ok {
		// callers may address the student by owner id directly
		if _, exists := s.data.profileFor(id); !exists {
			return errProfileNotFound
		}
		ownerID = id
	}
	s.data.flagField(ownerID, req.FieldName)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "field flagged"})
}

func (s *server) chatQuery(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	var req struct {
		ConversationID string `json:"conversationId"`
		Prompt         string `json:"prompt"`
	}
	if err = ctx.Bind(&req); err != nil {
		return err
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}
	s.data.setLastConversation(claims.Subject, convID)

	rows := s.queryRows(req.Prompt)
	resp := echo.Map{
		"conversationId": convID,
		"results":        rows,
	}
	if len(rows) > 0 {
		name := uuid.New().String() + ".csv"
		s.data.putArtifact(name, artifact{
			data:          profilesCSV(s.data.allProfiles()),
			suggestedName: "query-results.csv",
		})
		resp["downloadUrl"] = "/v1/export/download/" + name
	}
	return ctx.JSON(http.StatusOK, resp)
}

// queryRows fakes the AI query: a couple of keyword filters over the dataset,
// just enough behaviour to exercise the client contract.
func (s *server) queryRows(prompt string) []map[string]interface{} {
	p := strings.ToLower(prompt)
	if strings.Contains(p, "nothing") || strings.Contains(p, "no results") {
		return []map[string]interface{}{}
	}

	var rows []map[string]interface{}
	for _, prof := range s.data.allProfiles() {
		if strings.Contains(p, "hostel") && prof.HostelOrDayScholar.String != student.StatusHostel {
			continue
		}
		if strings.Contains(p, "dayscholar") && prof.HostelOrDayScholar.String != student.StatusDayScholar {
			continue
		}
		row := map[string]interface{}{
			"rollNo":  prof.RollNo,
			"name":    prof.Name,
			"email":   prof.Email,
			"class":   prof.Class,
			"section": prof.Section,
		}
		if prof.TenthMark.Valid {
			row["tenthMark"] = prof.TenthMark.Float64
		}
		if prof.TwelfthMark.Valid {
			row["twelfthMark"] = prof.TwelfthMark.Float64
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows
}

func (s *server) chatRecent(ctx echo.Context) error {
	claims, err := contextClaims(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"conversationId": s.data.lastConversation(claims.Subject),
	})
}

func (s *server) exportCSV(ctx echo.Context) error {
	var req struct {
		Filter map[string]interface{} `json:"filter"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	name := uuid.New().String() + ".csv"
	s.data.putArtifact(name, artifact{
		data:          profilesCSV(s.data.allProfiles()),
		suggestedName: "students-export.csv",
	})
	return ctx.JSON(http.StatusOK, echo.Map{
		"downloadUrl": "/v1/export/download/" + name,
	})
}

func (s *server) downloadArtifact(ctx echo.Context) error {
	name := ctx.Param("name")
	art, ok := s.data.artifact(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such export")
	}
	ctx.Response().Header().Set("Content-Disposition", `attachment; filename="`+art.suggestedName+`"`)
	return ctx.Blob(http.StatusOK, "text/csv", art.data)
}

func profilesCSV(profiles []student.Profile) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{
		"rollNo", "name", "class", "section", "phoneNumber", "email",
		"tenthMark", "twelfthMark", "hostelOrDayScholar", "roomNumber", "busNumber",
	})
	for _, p := range profiles {
		_ = w.Write([]string{
			p.RollNo, p.Name, p.Class, p.Section, p.PhoneNumber, p.Email,
			formatMark(p.TenthMark.Float64, p.TenthMark.Valid),
			formatMark(p.TwelfthMark.Float64, p.TwelfthMark.Valid),
			p.HostelOrDayScholar.String, p.RoomNumber.String, p.BusNumber.String,
		})
	}
	w.Flush()
	return buf.Bytes()
}

func formatMark(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
