// Package roster models the squad-roster events pushed by the host application.
//
// The host reports one UserUpdate per changed squad slot. Updates arrive in
// ordered batches and carry the account identity, role, subgroup and ready
// flag of a single user. This package owns the closed Role type, account name
// normalization and decoding of the JSON wire format used by the host bridge.
package roster

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AccountSentinel is the marker character the host prefixes to account names.
const AccountSentinel = ':'

// Role is the membership/authority role reported by the host.
type Role uint8

// Role values. The zero value is RoleInvalid so a missing role never reads
// as a squad leader; use RoleFromCode for the host's numeric codes.
const (
	RoleInvalid Role = iota
	RoleNone
	RoleLeader
	RoleLieutenant
	RoleMember
	RoleInvited
	RoleApplied
)

// Host wire codes.
const (
	codeLeader = iota
	codeLieutenant
	codeMember
	codeInvited
	codeApplied
	codeNone
)

var roleNames = map[Role]string{
	RoleLeader:     "leader",
	RoleLieutenant: "lieutenant",
	RoleMember:     "member",
	RoleInvited:    "invited",
	RoleApplied:    "applied",
	RoleNone:       "none",
	RoleInvalid:    "invalid",
}

// String returns the lowercase role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "invalid"
}

// IsCore reports whether the role counts toward "everyone is ready".
// Invited, applied and invalid slots never block a ready check.
func (r Role) IsCore() bool {
	switch r {
	case RoleLeader, RoleLieutenant, RoleMember:
		return true
	default:
		return false
	}
}

// RoleFromCode maps a host numeric role code to a Role.
// Unknown codes map to RoleInvalid.
func RoleFromCode(code int) Role {
	switch code {
	case codeLeader:
		return RoleLeader
	case codeLieutenant:
		return RoleLieutenant
	case codeMember:
		return RoleMember
	case codeInvited:
		return RoleInvited
	case codeApplied:
		return RoleApplied
	case codeNone:
		return RoleNone
	default:
		return RoleInvalid
	}
}

// ParseRole parses a role name as written by the host bridge.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leader", "squad_leader", "squadleader":
		return RoleLeader, nil
	case "lieutenant":
		return RoleLieutenant, nil
	case "member":
		return RoleMember, nil
	case "invited":
		return RoleInvited, nil
	case "applied":
		return RoleApplied, nil
	case "none":
		return RoleNone, nil
	case "invalid":
		return RoleInvalid, nil
	}
	if code, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return RoleFromCode(code), nil
	}
	return RoleInvalid, fmt.Errorf("unknown role %q", s)
}

// MarshalJSON encodes the role by name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either a role name or a numeric host code. Unknown
// names and values of any other JSON type decode as RoleInvalid, the same as
// unknown codes, so one odd slot never costs the rest of its batch.
func (r *Role) UnmarshalJSON(data []byte) error {
	*r = RoleInvalid
	if string(data) == "null" {
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		*r = RoleFromCode(code)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return nil
	}
	if role, err := ParseRole(name); err == nil {
		*r = role
	}
	return nil
}

// UserUpdate is a single per-user delta from the host.
// AccountName is nil when the host could not resolve the user.
type UserUpdate struct {
	AccountName *string `json:"account_name"`
	ReadyStatus bool    `json:"ready_status"`
	Role        Role    `json:"role"`
	Subgroup    uint8   `json:"subgroup"`
	JoinTime    uint64  `json:"join_time,omitempty"`
}

// Name returns the normalized account name and whether one was present.
func (u UserUpdate) Name() (string, bool) {
	if u.AccountName == nil {
		return "", false
	}
	name := NormalizeAccountName(*u.AccountName)
	if name == "" {
		return "", false
	}
	return name, true
}

// NormalizeAccountName strips a single leading sentinel character.
// Names are otherwise kept verbatim; comparisons are case-sensitive.
func NormalizeAccountName(name string) string {
	if len(name) > 0 && name[0] == AccountSentinel {
		return name[1:]
	}
	return name
}

// Account returns a pointer to name, for building updates in code.
func Account(name string) *string {
	return &name
}
