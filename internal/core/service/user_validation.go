package service

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
)

var (
	validate          = validator.New()
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// IsValidFirstName accepts a blank first name; otherwise it must be alphanumeric.
func IsValidFirstName(firstName string) bool {
	if strings.TrimSpace(firstName) == "" {
		return true
	}
	return alphanumericRegex.MatchString(firstName)
}

func IsValidLastName(lastName string) bool {
	return strings.TrimSpace(lastName) != ""
}

func IsValidAlias(alias string) bool {
	return strings.TrimSpace(alias) != ""
}

func IsValidNickname(nickname string) bool {
	return strings.TrimSpace(nickname) != ""
}

// GenerateAlias is the first initial followed by the first four letters of
// the last name, lowercased.
func GenerateAlias(firstName, lastName string) string {
	var b strings.Builder
	if r := []rune(firstName); len(r) > 0 {
		b.WriteString(strings.ToLower(string(r[0])))
	}
	last := []rune(lastName)
	b.WriteString(strings.ToLower(string(last[:min(4, len(last))])))
	return b.String()
}

// GenerateUsername returns prefix.xxxxx@domainPrefix.yyyyy, or
// xxxxx@yyyyy.com when no prefixes are given.
func GenerateUsername(usernamePrefix, domainPrefix string) string {
	name := randomString(5, lowercaseChars+digitChars)
	if usernamePrefix != "" {
		name = usernamePrefix + "." + name
	}

	host := randomString(5, lowercaseChars)
	if domainPrefix != "" {
		host = domainPrefix + "." + host
	} else {
		host += ".com"
	}
	return name + "@" + host
}

// GenerateNickname returns "User" followed by 20 random digits.
func GenerateNickname() string {
	return "User" + randomString(20, digitChars)
}

func randomString(n int, alphabet string) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// SuggestUser fills in generated identity values for the clone form.
func SuggestUser(input ports.UserSuggestionInput) ports.UserSuggestion {
	return ports.UserSuggestion{
		Alias:    GenerateAlias(input.FirstName, input.LastName),
		Username: GenerateUsername(input.UsernamePrefix, input.DomainPrefix),
		Nickname: GenerateNickname(),
	}
}

// ValidateCloneInput checks the clone form. Every problem is reported, joined
// into one ErrInvalidInput error.
func ValidateCloneInput(input ports.CloneUserInput) error {
	var v problems
	v.check(domain.IsRecordID(input.SourceUserID), "source user id %q is not a record id", input.SourceUserID)
	v.identity(input.FirstName, input.LastName, input.Email, input.Username, input.Alias, input.Nickname)
	v.check(input.ProfileID == "" || domain.IsRecordID(input.ProfileID), "profile id %q is not a record id", input.ProfileID)
	v.check(input.RoleID == "" || domain.IsRecordID(input.RoleID), "role id %q is not a record id", input.RoleID)
	return v.err()
}

// ValidateCreateInput checks the quick create form. Unlike a clone there is
// no source user to take the profile from, so it is required.
func ValidateCreateInput(input ports.CreateUserInput) error {
	var v problems
	v.identity(input.FirstName, input.LastName, input.Email, input.Username, input.Alias, input.Nickname)
	v.check(domain.IsRecordID(input.ProfileID), "profile id %q is not a record id", input.ProfileID)
	v.check(input.RoleID == "" || domain.IsRecordID(input.RoleID), "role id %q is not a record id", input.RoleID)
	return v.err()
}

type problems []error

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) identity(firstName, lastName, email, username, alias, nickname string) {
	p.check(IsValidFirstName(firstName), "first name must be alphanumeric")
	p.check(IsValidLastName(lastName), "last name is required")
	p.check(IsValidEmail(email), "email %q is not valid", email)
	p.check(IsValidEmail(username), "username %q must have the form of an email address", username)
	p.check(IsValidAlias(alias), "alias is required")
	p.check(IsValidNickname(nickname), "nickname is required")
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(p...))
}
