package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestDispatchRoutesEachRole(t *testing.T) {
	cases := RoleCases[string]{
		Student:    func(Principal) (string, error) { return "s", nil },
		Teacher:    func(Principal) (string, error) { return "t", nil },
		University: func(Principal) (string, error) { return "u", nil },
		Admin:      func(Principal) (string, error) { return "a", nil },
	}
	want := map[Role]string{RoleStudent: "s", RoleTeacher: "t", RoleUniversity: "u", RoleAdmin: "a"}
	for _, r := range Roles {
		got, err := Dispatch(Principal{UserID: uuid.New(), Role: r}, cases)
		require.NoError(t, err)
		assert.Equal(t, want[r], got)
	}
}

func TestDispatchRejectsIncompleteCases(t *testing.T) {
	_, err := Dispatch(Principal{Role: RoleStudent}, RoleCases[int]{
		Student: func(Principal) (int, error) { return 1, nil },
	})
	assert.Error(t, err)
}

func TestDispatchRejectsUnknownRole(t *testing.T) {
	fn := func(Principal) (int, error) { return 1, nil }
	_, err := Dispatch(Principal{Role: Role("guest")}, RoleCases[int]{fn, fn, fn, fn})
	assert.Error(t, err)
}
