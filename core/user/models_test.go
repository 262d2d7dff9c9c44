package user

import (
	"testing"

	"github.com/tharun-r1705/data-frontend-new/core"
)

func TestRole_home(t *testing.T) {
	tests := []struct {
		role    Role
		want    string
		wantErr bool
	}{
		{role: RoleStudent, want: "/student"},
		{role: RoleTeacher, want: "/teacher"},
		{role: "principal", wantErr: true},
		{role: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			home, err := tt.role.Home()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Home(%q) accepted an unknown role", tt.role)
				}
				return
			}
			if err != nil {
				t.Fatalf("Home(%q) failed: %v", tt.role, err)
			}
			if home != tt.want {
				t.Errorf("Home(%q) = %q, want %q", tt.role, home, tt.want)
			}
		})
	}
}

func TestUser_merge(t *testing.T) {
	base := User{ID: "u-1", Email: "awe@test.cd", Role: RoleStudent, Name: "Awe"}
	email := "new@test.cd"
	name := "New Name"

	tests := []struct {
		name string
		up   Update
		want User
	}{
		{name: "no-op", want: base},
		{
			name: "email only",
			up:   Update{Email: &email},
			want: User{ID: "u-1", Email: email, Role: RoleStudent, Name: "Awe"},
		},
		{
			name: "both",
			up:   Update{Email: &email, Name: &name},
			want: User{ID: "u-1", Email: email, Role: RoleStudent, Name: name},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Merge(tt.up); got != tt.want {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCredentials_validate(t *testing.T) {
	creds := Credentials{Email: "  AWE@Test.CD ", Password: "pwd"}
	if err := creds.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if creds.Email != "awe@test.cd" {
		t.Errorf("email not normalized: %q", creds.Email)
	}
}

func TestCredentials_validateFieldErrors(t *testing.T) {
	creds := Credentials{Email: "not-an-email"}
	err := creds.Validate()
	if err == nil {
		t.Fatal("Validate() accepted invalid credentials")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Validate() error = %T, want *core.ValidationError", err)
	}

	fields := make(map[string]string)
	for _, fld := range vErr.Fields {
		fields[fld.Field] = fld.Error
	}
	if _, ok := fields["email"]; !ok {
		t.Errorf("no error reported for email: %v", fields)
	}
	if msg := fields["password"]; msg != "this field is required" {
		t.Errorf("password error = %q, want the translated required message", msg)
	}
}

func TestNewAccount_validate(t *testing.T) {
	tests := []struct {
		name    string
		acct    NewAccount
		wantErr bool
	}{
		{
			name: "valid student",
			acct: NewAccount{Email: "awe@test.cd", Password: "s3cret!x", Role: RoleStudent},
		},
		{
			name: "valid teacher",
			acct: NewAccount{Email: "prof@test.cd", Password: "chalk&talk1", Role: RoleTeacher},
		},
		{
			name:    "missing role",
			acct:    NewAccount{Email: "awe@test.cd", Password: "s3cret!x"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			acct:    NewAccount{Email: "awe@test.cd", Password: "s3cret!x", Role: "principal"},
			wantErr: true,
		},
		{
			name:    "too short",
			acct:    NewAccount{Email: "awe@test.cd", Password: "s3c", Role: RoleStudent},
			wantErr: true,
		},
		{
			name:    "whitespace",
			acct:    NewAccount{Email: "awe@test.cd", Password: "se cret1", Role: RoleStudent},
			wantErr: true,
		},
		{
			name:    "all numeric",
			acct:    NewAccount{Email: "awe@test.cd", Password: "12345678", Role: RoleStudent},
			wantErr: true,
		},
		{
			name:    "similar to email",
			acct:    NewAccount{Email: "awe@test.cd", Password: "awe@test.cd", Role: RoleStudent},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() accepted invalid account")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}
