// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rollbook Contributors

// Package console provides the interactive terminal front end: login and
// registration gated by the lockout controller, then the student record
// menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rollbook/rollbook/internal/auth"
	"github.com/rollbook/rollbook/internal/student"
)

// LoginService defines the login operation needed by the console.
type LoginService interface {
	// Attempt evaluates one login attempt against the lockout gate and
	// the credential store.
	Attempt(ctx context.Context, username, secret string) (auth.LoginResult, error)
}

// RegistrationService defines the registration operation needed by the
// console.
type RegistrationService interface {
	// Register creates a new credential from a username, secret, and
	// confirmation.
	Register(ctx context.Context, username, secret, confirm string) (string, error)
}

// Directory defines the student record operations needed by the console.
type Directory interface {
	Create(ctx context.Context, in student.Input) (*student.Student, error)
	List(ctx context.Context) ([]*student.Student, error)
	Search(ctx context.Context, f student.Filter) ([]*student.Student, error)
	Update(ctx context.Context, id ulid.ULID, in student.Input) (*student.Student, error)
	Delete(ctx context.Context, id ulid.ULID) error
}

// Console runs the interactive session.
type Console struct {
	login    LoginService
	registry RegistrationService
	students Directory
	logger   *slog.Logger

	in  *bufio.Reader
	out io.Writer
}

// New creates a Console with a no-op logger.
// Returns an error if any required dependency is nil.
func New(login LoginService, registry RegistrationService, students Directory, in io.Reader, out io.Writer) (*Console, error) {
	if login == nil {
		return nil, oops.Errorf("login service is required")
	}
	if registry == nil {
		return nil, oops.Errorf("registration service is required")
	}
	if students == nil {
		return nil, oops.Errorf("student directory is required")
	}
	if in == nil {
		return nil, oops.Errorf("input reader is required")
	}
	if out == nil {
		return nil, oops.Errorf("output writer is required")
	}
	return &Console{
		login:    login,
		registry: registry,
		students: students,
		logger:   slog.New(slog.DiscardHandler),
		in:       bufio.NewReader(in),
		out:      out,
	}, nil
}

// NewWithLogger creates a Console with the provided logger.
// Returns an error if any required dependency is nil.
func NewWithLogger(login LoginService, registry RegistrationService, students Directory, in io.Reader, out io.Writer, logger *slog.Logger) (*Console, error) {
	c, err := New(login, registry, students, in, out)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	c.logger = logger
	return c, nil
}

// Run drives the session until the user quits or input is exhausted.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Rollbook student records\n")
	for {
		c.printf("\n[l]ogin  [r]egister  [q]uit\n")
		choice, err := c.readLine("> ")
		if err != nil {
			return c.eofOrErr(err)
		}

		switch strings.ToLower(choice) {
		case "l", "login":
			loggedIn, err := c.loginFlow(ctx)
			if err != nil {
				return c.eofOrErr(err)
			}
			if loggedIn {
				if err := c.studentMenu(ctx); err != nil {
					return c.eofOrErr(err)
				}
			}
		case "r", "register":
			if err := c.registerFlow(ctx); err != nil {
				return c.eofOrErr(err)
			}
		case "q", "quit":
			c.printf("Goodbye.\n")
			return nil
		default:
			c.printf("Unknown choice %q.\n", choice)
		}
	}
}

// loginFlow prompts for credentials and evaluates one attempt. Returns
// true when the attempt succeeded.
func (c *Console) loginFlow(ctx context.Context) (bool, error) {
	username, err := c.readLine("Username: ")
	if err != nil {
		return false, err
	}
	secret, err := c.readLine("Password: ")
	if err != nil {
		return false, err
	}

	result, err := c.login.Attempt(ctx, username, secret)
	if err != nil {
		c.logger.Error("login attempt failed", "error", err.Error())
		c.printf("Login is unavailable right now. Please try again.\n")
		return false, nil
	}

	switch result.Outcome {
	case auth.LoginSuccess:
		c.printf("Welcome, %s!\n", result.Username)
		return true, nil
	case auth.LoginLockedOut:
		c.printf("Too many failed attempts. Try again in %s.\n", result.RetryAfter.Round(time.Second))
		return false, nil
	default:
		c.printf("Invalid username or password. %d attempt(s) remaining.\n", result.AttemptsRemaining)
		return false, nil
	}
}

// registerFlow prompts for a new credential and reports the outcome.
func (c *Console) registerFlow(ctx context.Context) error {
	username, err := c.readLine("New username: ")
	if err != nil {
		return err
	}
	secret, err := c.readLine("New password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readLine("Confirm password: ")
	if err != nil {
		return err
	}

	registered, err := c.registry.Register(ctx, username, secret, confirm)
	if err != nil {
		c.printf("%s\n", registerErrorMessage(err))
		return nil
	}
	c.printf("Account %q created. You can now log in.\n", registered)
	return nil
}

// registerErrorMessage maps registration failures to user-facing text.
func registerErrorMessage(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if ok {
		switch oopsErr.Code() {
		case "AUTH_EMPTY_USERNAME":
			return "Username cannot be empty."
		case "AUTH_EMPTY_SECRET":
			return "Password cannot be empty."
		case "AUTH_SECRET_MISMATCH":
			return "Passwords do not match."
		case "AUTH_USERNAME_TAKEN":
			return "Username already exists. Please choose another."
		}
	}
	return "Registration failed. Please try again."
}

// studentMenu drives the record operations until logout or quit.
func (c *Console) studentMenu(ctx context.Context) error {
	for {
		c.printf("\n[a]dd  [l]ist  [s]earch  [u]pdate  [d]elete  [o] logout\n")
		choice, err := c.readLine("> ")
		if err != nil {
			return err
		}

		var opErr error
		switch strings.ToLower(choice) {
		case "a", "add":
			opErr = c.addStudent(ctx)
		case "l", "list":
			opErr = c.listStudents(ctx)
		case "s", "search":
			opErr = c.searchStudents(ctx)
		case "u", "update":
			opErr = c.updateStudent(ctx)
		case "d", "delete":
			opErr = c.deleteStudent(ctx)
		case "o", "logout":
			c.printf("Logged out.\n")
			return nil
		default:
			c.printf("Unknown choice %q.\n", choice)
		}
		if opErr != nil {
			return opErr
		}
	}
}

func (c *Console) addStudent(ctx context.Context) error {
	in, err := c.promptInput(student.Input{})
	if err != nil {
		return err
	}

	record, err := c.students.Create(ctx, in)
	if err != nil {
		c.printf("%s\n", studentErrorMessage(err))
		return nil
	}
	c.printf("Added %s (roll %s).\n", record.Name, record.Roll)
	return nil
}

func (c *Console) listStudents(ctx context.Context) error {
	records, err := c.students.List(ctx)
	if err != nil {
		c.logger.Error("list students failed", "error", err.Error())
		c.printf("Could not list students.\n")
		return nil
	}
	c.printRecords(records)
	return nil
}

func (c *Console) searchStudents(ctx context.Context) error {
	c.printf("Leave a field blank to skip it.\n")
	name, err := c.readLine("Name contains: ")
	if err != nil {
		return err
	}
	roll, err := c.readLine("Roll contains: ")
	if err != nil {
		return err
	}
	class, err := c.readLine("Class contains: ")
	if err != nil {
		return err
	}

	records, err := c.students.Search(ctx, student.Filter{Name: name, Roll: roll, Class: class})
	if err != nil {
		c.logger.Error("search students failed", "error", err.Error())
		c.printf("Search failed.\n")
		return nil
	}
	c.printRecords(records)
	return nil
}

func (c *Console) updateStudent(ctx context.Context) error {
	record, err := c.pickByRoll(ctx)
	if err != nil || record == nil {
		return err
	}

	c.printf("Press enter to keep the current value.\n")
	in, err := c.promptInputWithDefaults(record)
	if err != nil {
		return err
	}

	updated, err := c.students.Update(ctx, record.ID, in)
	if err != nil {
		c.printf("%s\n", studentErrorMessage(err))
		return nil
	}
	c.printf("Updated %s (roll %s).\n", updated.Name, updated.Roll)
	return nil
}

func (c *Console) deleteStudent(ctx context.Context) error {
	record, err := c.pickByRoll(ctx)
	if err != nil || record == nil {
		return err
	}

	confirm, err := c.readLine(fmt.Sprintf("Delete %s (roll %s)? [y/N]: ", record.Name, record.Roll))
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "y" {
		c.printf("Cancelled.\n")
		return nil
	}

	if err := c.students.Delete(ctx, record.ID); err != nil {
		c.printf("%s\n", studentErrorMessage(err))
		return nil
	}
	c.printf("Deleted.\n")
	return nil
}

// pickByRoll resolves a record by its roll number. A nil record with a
// nil error means the lookup failed and a message was already printed.
func (c *Console) pickByRoll(ctx context.Context) (*student.Student, error) {
	roll, err := c.readLine("Roll: ")
	if err != nil {
		return nil, err
	}

	records, err := c.students.Search(ctx, student.Filter{Roll: roll})
	if err != nil {
		c.logger.Error("roll lookup failed", "error", err.Error())
		c.printf("Lookup failed.\n")
		return nil, nil
	}
	for _, r := range records {
		if r.Roll == roll {
			return r, nil
		}
	}
	c.printf("No student with roll %q.\n", roll)
	return nil, nil
}

// studentErrorMessage maps record operation failures to user-facing text.
func studentErrorMessage(err error) string {
	switch {
	case errors.Is(err, student.ErrDuplicateRoll):
		return "That roll number is already in use."
	case errors.Is(err, student.ErrNotFound):
		return "Record not found."
	}
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == "STUDENT_INVALID" {
		return "Name and roll are required."
	}
	return "The operation failed. Please try again."
}

func (c *Console) promptInput(defaults student.Input) (student.Input, error) {
	fields := []struct {
		label string
		cur   string
		dst   *string
	}{
		{"Name", defaults.Name, &defaults.Name},
		{"Roll", defaults.Roll, &defaults.Roll},
		{"Date of birth", defaults.DOB, &defaults.DOB},
		{"Contact", defaults.Contact, &defaults.Contact},
		{"Email", defaults.Email, &defaults.Email},
		{"Gender", defaults.Gender, &defaults.Gender},
		{"Class", defaults.Class, &defaults.Class},
		{"Address", defaults.Address, &defaults.Address},
	}
	for _, f := range fields {
		prompt := f.label + ": "
		if f.cur != "" {
			prompt = fmt.Sprintf("%s [%s]: ", f.label, f.cur)
		}
		value, err := c.readLine(prompt)
		if err != nil {
			return student.Input{}, err
		}
		if value != "" {
			*f.dst = value
		}
	}
	return defaults, nil
}

func (c *Console) promptInputWithDefaults(record *student.Student) (student.Input, error) {
	return c.promptInput(student.Input{
		Name:    record.Name,
		Roll:    record.Roll,
		DOB:     record.DOB,
		Contact: record.Contact,
		Email:   record.Email,
		Gender:  record.Gender,
		Class:   record.Class,
		Address: record.Address,
	})
}

func (c *Console) printRecords(records []*student.Student) {
	if len(records) == 0 {
		c.printf("No records.\n")
		return
	}
	c.printf("%-10s %-24s %-8s %-12s\n", "ROLL", "NAME", "CLASS", "CONTACT")
	for _, r := range records {
		c.printf("%-10s %-24s %-8s %-12s\n", r.Roll, r.Name, r.Class, r.Contact)
	}
	c.printf("%d record(s).\n", len(records))
}

// readLine prints a prompt and reads one trimmed line.
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// eofOrErr treats exhausted input as a normal end of session.
func (c *Console) eofOrErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return oops.Code("CONSOLE_IO_FAILED").Wrap(err)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
