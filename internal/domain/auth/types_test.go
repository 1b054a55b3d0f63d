package auth

import (
	"encoding/json"
	"testing"
)

func TestToken_IsEmpty(t *testing.T) {
	if !Token("").IsEmpty() || !Token("  ").IsEmpty() {
		t.Fatalf("expected empty token")
	}
	if Token("abc").IsEmpty() {
		t.Fatalf("did not expect empty token")
	}
}

func TestState_Stable(t *testing.T) {
	for _, s := range []State{StateAnonymous, StateAuthenticated, StateIdentified} {
		if !s.Stable() {
			t.Fatalf("expected %s to be stable", s)
		}
	}
	for _, s := range []State{StateAuthenticating, StateIdentifying} {
		if s.Stable() {
			t.Fatalf("did not expect %s to be stable", s)
		}
	}
}

func TestUserID_UnmarshalJSON(t *testing.T) {
	cases := map[string]UserID{
		`{"userId":7}`:     "7",
		`{"userId":"u-9"}`: "u-9",
		`{"userId":null}`:  "",
		`{}`:               "",
	}
	for in, want := range cases {
		var u User
		if err := json.Unmarshal([]byte(in), &u); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if u.UserID != want {
			t.Fatalf("unmarshal %s: got %q want %q", in, u.UserID, want)
		}
	}

	var u User
	if err := json.Unmarshal([]byte(`{"userId":true}`), &u); err == nil {
		t.Fatalf("expected error for boolean id")
	}

	if n, ok := UserID("7").Int(); !ok || n != 7 {
		t.Fatalf("expected numeric id 7, got %d %v", n, ok)
	}
	if _, ok := UserID("u-9").Int(); ok {
		t.Fatalf("did not expect numeric id")
	}
}

func TestUserInfo_RolesAbsentVsEmpty(t *testing.T) {
	var absent UserInfo
	if err := json.Unmarshal([]byte(`{"user":{"userName":"alice"}}`), &absent); err != nil {
		t.Fatal(err)
	}
	if absent.Roles != nil {
		t.Fatalf("expected nil roles when absent")
	}

	var empty UserInfo
	if err := json.Unmarshal([]byte(`{"user":{},"roles":[]}`), &empty); err != nil {
		t.Fatal(err)
	}
	if empty.Roles == nil || len(empty.Roles) != 0 {
		t.Fatalf("expected empty non-nil roles")
	}
}

func TestIdentity_Checks(t *testing.T) {
	id := Identity{Roles: []string{"common"}, Permissions: []string{"system:show:list"}}
	if !id.HasRole("common") || id.HasRole("admin") {
		t.Fatalf("unexpected role result: %+v", id)
	}
	if !id.HasPermission("system:show:list") || id.HasPermission("system:history:remove") {
		t.Fatalf("unexpected permission result: %+v", id)
	}

	admin := Identity{Roles: []string{SuperAdminRole}, Permissions: []string{AllPermission}}
	if !admin.HasRole("anything") || !admin.HasPermission("system:history:remove") {
		t.Fatalf("expected wildcard grants")
	}
}

func TestIdentity_Clone(t *testing.T) {
	orig := Identity{Roles: []string{"a"}, Permissions: []string{"p"}}
	c := orig.Clone()
	c.Roles[0] = "b"
	c.Permissions[0] = "q"
	if orig.Roles[0] != "a" || orig.Permissions[0] != "p" {
		t.Fatalf("clone shares backing arrays")
	}
}
