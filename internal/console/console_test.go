// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollbook/rollbook/internal/auth"
	"github.com/rollbook/rollbook/internal/console"
	"github.com/rollbook/rollbook/internal/student"
)

// fakeLogin replays canned login results in order.
type fakeLogin struct {
	results []auth.LoginResult
	err     error
	calls   int
}

func (f *fakeLogin) Attempt(_ context.Context, _, _ string) (auth.LoginResult, error) {
	if f.err != nil {
		return auth.LoginResult{}, f.err
	}
	r := f.results[f.calls]
	f.calls++
	return r, nil
}

// fakeRegistry records the last registration and returns a canned error.
type fakeRegistry struct {
	err      error
	username string
	secret   string
	confirm  string
}

func (f *fakeRegistry) Register(_ context.Context, username, secret, confirm string) (string, error) {
	f.username, f.secret, f.confirm = username, secret, confirm
	if f.err != nil {
		return "", f.err
	}
	return username, nil
}

// fakeDirectory is an in-memory student directory.
type fakeDirectory struct {
	records []*student.Student
	err     error
}

func (f *fakeDirectory) Create(_ context.Context, in student.Input) (*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, err := student.NewStudent(in)
	if err != nil {
		return nil, err
	}
	for _, existing := range f.records {
		if existing.Roll == s.Roll {
			return nil, student.ErrDuplicateRoll
		}
	}
	f.records = append(f.records, s)
	return s, nil
}

func (f *fakeDirectory) List(_ context.Context) ([]*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeDirectory) Search(_ context.Context, filter student.Filter) ([]*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*student.Student
	for _, r := range f.records {
		if filter.Roll != "" && !strings.Contains(r.Roll, filter.Roll) {
			continue
		}
		if filter.Name != "" && !strings.Contains(r.Name, filter.Name) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeDirectory) Update(_ context.Context, id ulid.ULID, in student.Input) (*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.ID == id {
			r.Apply(in)
			return r, nil
		}
	}
	return nil, student.ErrNotFound
}

func (f *fakeDirectory) Delete(_ context.Context, id ulid.ULID) error {
	if f.err != nil {
		return f.err
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return student.ErrNotFound
}

// run feeds script lines to a fresh console and returns its output.
func run(t *testing.T, login console.LoginService, registry console.RegistrationService, dir console.Directory, script ...string) string {
	t.Helper()

	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	var out bytes.Buffer
	c, err := console.New(login, registry, dir, in, &out)
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestNew(t *testing.T) {
	t.Run("nil dependencies are rejected", func(t *testing.T) {
		_, err := console.New(nil, &fakeRegistry{}, &fakeDirectory{}, strings.NewReader(""), &bytes.Buffer{})
		assert.Error(t, err)

		_, err = console.New(&fakeLogin{}, nil, &fakeDirectory{}, strings.NewReader(""), &bytes.Buffer{})
		assert.Error(t, err)

		_, err = console.New(&fakeLogin{}, &fakeRegistry{}, nil, strings.NewReader(""), &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestConsole_Run(t *testing.T) {
	t.Run("quit ends the session", func(t *testing.T) {
		out := run(t, &fakeLogin{}, &fakeRegistry{}, &fakeDirectory{}, "q")
		assert.Contains(t, out, "Goodbye.")
	})

	t.Run("exhausted input ends the session cleanly", func(t *testing.T) {
		in := strings.NewReader("")
		var out bytes.Buffer
		c, err := console.New(&fakeLogin{}, &fakeRegistry{}, &fakeDirectory{}, in, &out)
		require.NoError(t, err)
		assert.NoError(t, c.Run(context.Background()))
	})

	t.Run("unknown choice reprompts", func(t *testing.T) {
		out := run(t, &fakeLogin{}, &fakeRegistry{}, &fakeDirectory{}, "x", "q")
		assert.Contains(t, out, `Unknown choice "x"`)
		assert.Contains(t, out, "Goodbye.")
	})
}

func TestConsole_Login(t *testing.T) {
	t.Run("success opens the student menu", func(t *testing.T) {
		login := &fakeLogin{results: []auth.LoginResult{
			{Outcome: auth.LoginSuccess, Username: "admin"},
		}}
		out := run(t, login, &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "admin", "o", "q")
		assert.Contains(t, out, "Welcome, admin!")
		assert.Contains(t, out, "Logged out.")
	})

	t.Run("invalid credentials show remaining attempts", func(t *testing.T) {
		login := &fakeLogin{results: []auth.LoginResult{
			{Outcome: auth.LoginInvalidCredentials, AttemptsRemaining: 2},
		}}
		out := run(t, login, &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "wrong", "q")
		assert.Contains(t, out, "2 attempt(s) remaining")
	})

	t.Run("lockout shows the cooldown", func(t *testing.T) {
		login := &fakeLogin{results: []auth.LoginResult{
			{Outcome: auth.LoginLockedOut, RetryAfter: 10 * time.Second},
		}}
		out := run(t, login, &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "wrong", "q")
		assert.Contains(t, out, "Too many failed attempts")
		assert.Contains(t, out, "10s")
	})

	t.Run("store failure is reported without crashing", func(t *testing.T) {
		login := &fakeLogin{err: assert.AnError}
		out := run(t, login, &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "admin", "q")
		assert.Contains(t, out, "Login is unavailable")
	})
}

func TestConsole_Register(t *testing.T) {
	t.Run("success reports the new account", func(t *testing.T) {
		registry := &fakeRegistry{}
		out := run(t, &fakeLogin{}, registry, &fakeDirectory{},
			"r", "alice", "s3cret", "s3cret", "q")
		assert.Contains(t, out, `Account "alice" created`)
		assert.Equal(t, "alice", registry.username)
		assert.Equal(t, "s3cret", registry.secret)
		assert.Equal(t, "s3cret", registry.confirm)
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		registry := &fakeRegistry{err: auth.ErrSecretMismatch}
		out := run(t, &fakeLogin{}, registry, &fakeDirectory{},
			"r", "alice", "a", "b", "q")
		assert.Contains(t, out, "Passwords do not match.")
	})

	t.Run("taken username", func(t *testing.T) {
		registry := &fakeRegistry{err: auth.ErrUsernameTaken}
		out := run(t, &fakeLogin{}, registry, &fakeDirectory{},
			"r", "admin", "x", "x", "q")
		assert.Contains(t, out, "Username already exists")
	})

	t.Run("empty username", func(t *testing.T) {
		registry := &fakeRegistry{err: auth.ErrEmptyUsername}
		out := run(t, &fakeLogin{}, registry, &fakeDirectory{},
			"r", "", "x", "x", "q")
		assert.Contains(t, out, "Username cannot be empty.")
	})
}

func loggedIn() *fakeLogin {
	return &fakeLogin{results: []auth.LoginResult{
		{Outcome: auth.LoginSuccess, Username: "admin"},
	}}
}

func TestConsole_StudentMenu(t *testing.T) {
	t.Run("add then list", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "Asha Rao", "R-101", "", "", "", "", "10A", "",
			"l",
			"o", "q")
		assert.Contains(t, out, "Added Asha Rao (roll R-101).")
		assert.Contains(t, out, "1 record(s).")
		require.Len(t, dir.records, 1)
	})

	t.Run("add with missing name is rejected", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "", "R-101", "", "", "", "", "", "",
			"o", "q")
		assert.Contains(t, out, "Name and roll are required.")
		assert.Empty(t, dir.records)
	})

	t.Run("duplicate roll is reported", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "A", "R-1", "", "", "", "", "", "",
			"a", "B", "R-1", "", "", "", "", "", "",
			"o", "q")
		assert.Contains(t, out, "That roll number is already in use.")
	})

	t.Run("search filters records", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "Asha Rao", "R-101", "", "", "", "", "", "",
			"a", "Birju Mehta", "R-102", "", "", "", "", "", "",
			"s", "Asha", "", "",
			"o", "q")
		assert.Contains(t, out, "1 record(s).")
	})

	t.Run("update keeps blank fields", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "Asha Rao", "R-101", "", "", "", "", "10A", "",
			"u", "R-101", "", "", "", "", "", "", "11A", "",
			"o", "q")
		assert.Contains(t, out, "Updated Asha Rao (roll R-101).")
		require.Len(t, dir.records, 1)
		assert.Equal(t, "Asha Rao", dir.records[0].Name)
		assert.Equal(t, "11A", dir.records[0].Class)
	})

	t.Run("delete asks for confirmation", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "Asha Rao", "R-101", "", "", "", "", "", "",
			"d", "R-101", "n",
			"o", "q")
		assert.Contains(t, out, "Cancelled.")
		require.Len(t, dir.records, 1)
	})

	t.Run("delete removes on confirmation", func(t *testing.T) {
		dir := &fakeDirectory{}
		out := run(t, loggedIn(), &fakeRegistry{}, dir,
			"l", "admin", "admin",
			"a", "Asha Rao", "R-101", "", "", "", "", "", "",
			"d", "R-101", "y",
			"o", "q")
		assert.Contains(t, out, "Deleted.")
		assert.Empty(t, dir.records)
	})

	t.Run("unknown roll is reported", func(t *testing.T) {
		out := run(t, loggedIn(), &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "admin",
			"d", "R-999",
			"o", "q")
		assert.Contains(t, out, `No student with roll "R-999"`)
	})

	t.Run("empty list", func(t *testing.T) {
		out := run(t, loggedIn(), &fakeRegistry{}, &fakeDirectory{},
			"l", "admin", "admin",
			"l",
			"o", "q")
		assert.Contains(t, out, "No records.")
	})
}
